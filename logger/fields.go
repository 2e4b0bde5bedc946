package logger

// Standard field names for consistent structured logging.
// Use these constants instead of raw strings.
const (
	// Identity
	FieldRunID     = "run_id"
	FieldComponent = "component"

	// Generation inputs
	FieldUDLFile  = "udl_file"
	FieldLanguage = "language"
	FieldOutDir   = "out_dir"
	FieldLibName  = "lib_name"

	// Generator subprocess
	FieldCommand  = "command"
	FieldArgs     = "args"
	FieldExitCode = "exit_code"
	FieldVersion  = "version"

	// Files
	FieldFile   = "file"
	FieldAnchor = "anchor"
	FieldOffset = "offset"
	FieldSize   = "size"
	FieldOp     = "op"

	// Timing and errors
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
)
