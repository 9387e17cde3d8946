package config

// Application constants
const (
	AppName    = "cohortpay"
	AppVersion = "1.0.0"

	// Fiscal years covered by the default input set
	DefaultFirstYear = 2014
	DefaultLastYear  = 2021

	// Date the officer profiles were pulled; tenure is measured against it
	DefaultAsOfDate = "2021-11-30"

	// Only report a rank when more than this many cohort members hold it
	DefaultRankMinimum = 5

	DefaultCohortLabel         = "SRG"
	DefaultExecutiveRankPrefix = "CHIEF OF"
)

// DefaultTenureBoundaries are the upper bounds of the tenure buckets, in years.
var DefaultTenureBoundaries = []int{5, 10, 15, 20, 25, 30}

// DefaultCohortCommands are the Strategic Response Group commands.
var DefaultCohortCommands = []string{
	"STRATEGIC RESPONSE GROUP",
	"STRATEGIC RESP GRP 1 MANHATTAN",
	"STRATEGIC RESP GRP 2 BRONX",
	"STRATEGIC RESP GRP 3 BROOKLYN",
	"STRATEGIC RESP GRP 4 QUEENS",
	"STRATEGIC RESP GRP 5 SI",
}

// DefaultSpecializedCommands form the "other specialized units" comparison group.
var DefaultSpecializedCommands = []string{
	"CITYWIDE COUNTERTERRORISM UNIT",
	"COUNTERTERRORISM BUREAU",
	"COUNTERTERRORISM DIVISION",
	"CRITICAL RESPONSE COMMAND",
	"DISORDER CONTROL UNIT",
	"EMER SERV SQ 01",
	"EMER SERV SQ 02",
	"EMER SERV SQ 03",
	"EMER SERV SQ 04",
	"EMER SERV SQ 05",
	"EMER SERV SQ 06",
	"EMER SERV SQ 07",
	"EMER SERV SQ 08",
	"EMER SERV SQ 09",
	"EMER SERV SQ 10",
	"EMERGENCY SERVICES UNIT",
	"ESU CANINE TEAM",
	"TB ANTI TERRORISM UNIT",
	"TECH. ASSIST. & RESPONSE UNIT",
}
