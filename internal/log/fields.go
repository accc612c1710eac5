// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService = "service"
	FieldVersion = "version"
	FieldRunID   = "run_id"
	FieldJobID   = "job_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldDuration  = "duration_ms"
	FieldExitCode  = "exit_code"

	// Descriptor fields
	FieldElements = "elements"
	FieldElement  = "element"
	FieldLayer    = "layer"

	// Path fields
	FieldPath    = "path"
	FieldSWF     = "swf"
	FieldOutDir  = "out_dir"
	FieldXMLPath = "xml_path"
	FieldBinary  = "binary"
)
