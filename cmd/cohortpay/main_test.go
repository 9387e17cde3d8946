package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cohortpay/internal/infrastructure"
)

const payrollHeader = "taxid,command,rank,appt_date,assignment_date,Fiscal Year,Leave Status as of June 30,Base Salary,Regular Hours,Regular Gross Paid,OT Hours,Total OT Paid,Total Other Pay\n"

func writeFixtures(t *testing.T) (inDir, outDir string) {
	t.Helper()
	dir := t.TempDir()
	inDir = filepath.Join(dir, "in")
	outDir = filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(inDir, 0755))

	t.Setenv("COHORTPAY_LOGGING_FILE_PATH", filepath.Join(dir, "logs", "cohortpay.log"))
	t.Setenv("COHORTPAY_INPUT_FILES", "payroll_2020.csv,payroll_2021.csv")
	infrastructure.ResetLoggerForTesting()

	files := map[string]string{
		"payroll_2020.csv": payrollHeader +
			`1,STRATEGIC RESPONSE GROUP,SERGEANT,7/1/2012,9/15/2020,2020,ACTIVE,"$85,000",2080,1000,0,0,0` + "\n" +
			`2,PCT 001,POLICE OFFICER,7/1/2018,,2020,ACTIVE,70000,2080,900,0,0,0` + "\n" +
			`9,PCT 001,POLICE OFFICER,7/1/2018,,,ACTIVE,70000,2080,900,0,0,0` + "\n",
		"payroll_2021.csv": payrollHeader +
			`1,STRATEGIC RESPONSE GROUP,SERGEANT,7/1/2012,9/15/2020,2021,ACTIVE,"$85,000",2080,1200,0,0,0` + "\n" +
			`2,PCT 001,POLICE OFFICER,7/1/2018,,2021,CEASED,70000,2080,1000,0,0,0` + "\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(inDir, name), []byte(content), 0644))
	}
	return inDir, outDir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestReportCommand(t *testing.T) {
	inDir, outDir := writeFixtures(t)
	metricsFile := filepath.Join(outDir, "cohortpay.prom")

	stdout, err := run(t, "report", "--in", inDir, "--out", outDir, "--metrics-file", metricsFile)
	require.NoError(t, err)

	var out reportOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "report", out.Command)
	assert.NotEmpty(t, out.RunID)
	assert.Equal(t, 2021, out.TargetYear)
	assert.Equal(t, 5, out.RowsRead)
	assert.Equal(t, 4, out.Records)
	assert.Equal(t, 1, out.Dropped["malformed_row"])
	require.Len(t, out.Reports, 3)

	commands, err := os.ReadFile(filepath.Join(outDir, "commands.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(commands)), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "command,officers,avg_base_salary,"))
	assert.True(t, strings.HasPrefix(lines[1], "ALL SRG,1,85000.00,"))
	assert.True(t, strings.HasPrefix(lines[3], "PCT 001,1,"))
	assert.True(t, strings.HasPrefix(lines[4], "STRATEGIC RESPONSE GROUP,1,"))

	pay, err := os.ReadFile(filepath.Join(outDir, "pay.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(pay), "field,change first SRG year,change other years\n")
	assert.Contains(t, string(pay), "total_paid_change,200.00,100.00\n")

	_, err = os.Stat(filepath.Join(outDir, "rankyear.csv"))
	assert.NoError(t, err)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "payroll_records_loaded_total")
}

func TestReportCommand_XLSXAndPolicies(t *testing.T) {
	inDir, outDir := writeFixtures(t)

	_, err := run(t, "report", "--in", inDir, "--out", outDir,
		"--format", "xlsx", "--pay-leave-policy", "active", "--empty-groups", "omit")
	require.NoError(t, err)

	f, err := excelize.OpenFile(filepath.Join(outDir, "pay.xlsx"))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("pay")
	require.NoError(t, err)
	require.Len(t, rows, 8)
	assert.Equal(t, "total_paid_change", rows[7][0])
	assert.Equal(t, "200.00", rows[7][1])
}

func TestReportCommand_Errors(t *testing.T) {
	inDir, outDir := writeFixtures(t)

	tests := []struct {
		name string
		args []string
	}{
		{"invalid format", []string{"report", "--in", inDir, "--out", outDir, "--format", "json"}},
		{"invalid leave policy", []string{"report", "--in", inDir, "--out", outDir, "--leave-policy", "some"}},
		{"missing input dir", []string{"report", "--in", filepath.Join(inDir, "nope"), "--out", outDir}},
		{"missing config file", []string{"report", "--config", filepath.Join(inDir, "missing.yaml")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestRanksCommand(t *testing.T) {
	inDir, _ := writeFixtures(t)

	stdout, err := run(t, "ranks", "--in", inDir, "--discover")
	require.NoError(t, err)

	var out ranksOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, "ranks", out.Command)
	assert.Equal(t, 2021, out.TargetYear)
	assert.Equal(t, 5, out.RankMinimum)
	assert.Equal(t, []string{"POLICE OFFICER", "SERGEANT"}, out.AllRanks)
	assert.Empty(t, out.Qualifying)
}

func TestRanksCommand_ConfigFile(t *testing.T) {
	inDir, _ := writeFixtures(t)
	cfgPath := filepath.Join(inDir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("analysis:\n  rank_minimum: 0\n"), 0644))

	stdout, err := run(t, "ranks", "--config", cfgPath, "--in", inDir)
	require.NoError(t, err)

	var out ranksOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	assert.Equal(t, 0, out.RankMinimum)
	require.Len(t, out.Qualifying, 1)
	assert.Equal(t, rankEntry{Rank: "SERGEANT", Cohort: 1, NonCohort: 0}, out.Qualifying[0])
}
