package logging

// Standardized field names for structured logging.
const (
	FieldFile        = "file_path"
	FieldPeriod      = "period"
	FieldStrategy    = "strategy"
	FieldCategory    = "category"
	FieldPartner     = "partner"
	FieldRow         = "row"
	FieldCell        = "cell"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldWithdrawal  = "withdrawal_id"
	FieldAmount      = "amount"
	FieldRevision    = "taxonomy_revision"
	FieldDiagnostics = "diagnostics"
)
