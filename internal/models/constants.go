package models

// Report defaults
const (
	DefaultSheetName   = "Página 1"
	DefaultFeePrefix   = "honorario"
	DefaultMinimumWage = "1518.00"
	DefaultTopN        = 10
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
