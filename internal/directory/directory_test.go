package directory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"call-digest-go/internal/types"
)

var prateek = types.Agent{Name: "Prateek", FullName: "Prateek Raj", SlackHandle: "<@U09HRKLA3KR>", Department: "Customer Success", Phone: "+919631084471"}

func TestResolveDirection(t *testing.T) {
	second := types.Agent{Name: "Asha", Phone: "+919700000000", Department: "Billing"}
	d, err := New(prateek, second)
	require.NoError(t, err)

	out := d.Resolve("+919631084471", "+919812345678")
	assert.Equal(t, types.DirectionOutbound, out.Direction)
	assert.Equal(t, "+919631084471", out.SupportNumber)
	assert.Equal(t, "+919812345678", out.CustomerNumber)
	assert.Equal(t, "Prateek", out.Agent.Name)

	in := d.Resolve("+919812345678", "09700000000")
	assert.Equal(t, types.DirectionInbound, in.Direction)
	assert.Equal(t, "+919700000000", in.SupportNumber)
	assert.Equal(t, "+919812345678", in.CustomerNumber)
	assert.Equal(t, "Asha", in.Agent.Name)

	unknown := d.Resolve("+919812345678", "09513886363")
	assert.Equal(t, types.DirectionInbound, unknown.Direction)
	assert.Equal(t, "+919631084471", unknown.SupportNumber)
	assert.Equal(t, "Prateek", unknown.Agent.Name)
}

func TestCanonical(t *testing.T) {
	for _, in := range []string{"+919631084471", "+91 96310 84471", "09631084471", "9631-084-471"} {
		assert.Equal(t, "9631084471", Canonical(in), in)
	}
	assert.Equal(t, "", Canonical("Unknown"))
}

func TestNewRejectsBadRosters(t *testing.T) {
	_, err := New()
	assert.ErrorIs(t, err, ErrNoAgents)

	_, err = New(types.Agent{Name: "nophone"})
	assert.Error(t, err)

	_, err = New(prateek, types.Agent{Name: "dup", Phone: "09631084471"})
	assert.Error(t, err)
}

func TestNewDefaultsFullName(t *testing.T) {
	d, err := New(types.Agent{Name: "Asha", Phone: "+919700000000"})
	require.NoError(t, err)
	assert.Equal(t, "Asha", d.Primary().FullName)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`agents:
  - name: Prateek
    full_name: Prateek Raj
    phone: "+919631084471"
    slack_handle: "<@U09HRKLA3KR>"
    department: Customer Success
  - name: Asha
    phone: "+919700000000"
`), 0o644))

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
	assert.Equal(t, "Prateek Raj", d.Primary().FullName)

	a, ok := d.Lookup("9700000000")
	require.True(t, ok)
	assert.Equal(t, "Asha", a.Name)
}

func TestLoadSpreadsheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"Name", "Full Name", "Phone Number", "Slack Handle", "Department"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"Prateek", "Prateek Raj", "+919631084471", "<@U09HRKLA3KR>", "Customer Success"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"", "", "", "", ""}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]string{"Asha", "", "+919700000000", "", "Billing"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	agents, err := LoadSpreadsheet(path)
	require.NoError(t, err)
	require.Len(t, agents, 2)
	assert.Equal(t, prateek, agents[0])
	assert.Equal(t, "Billing", agents[1].Department)

	d, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Prateek", d.Primary().Name)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := Load("agents.csv")
	assert.Error(t, err)
}
