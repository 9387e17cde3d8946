// Package payroll defines the normalized PayrollRecord and the Record Loader
// that turns yearly source tables into records.
//
// A record is one officer in one fiscal year. Cohort flags and tenure are
// derived once at load time and stored as plain fields:
//
//	IsCohortMember    command is one of the cohort commands
//	IsCohortYear      member and assigned on or before June 30 of the fiscal year
//	IsCohortJoinYear  member and assigned strictly inside the fiscal-year window
//
// The loader drops rows in a fixed order (missing fiscal year, unparseable
// values, appointment after fiscal-year end) and reports each dropped row as
// a *errors.RowError.
package payroll
