package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Kind    Kind
	Message string
	Detail  string
	DocURL  string
}

// Registered codes.
const (
	CodeRoutesNotArray   = "R001"
	CodePropsNoSignal    = "R002"
	CodeDuplicateSignal  = "R003"
	CodeInvalidOption    = "R004"
	CodeInvalidTemplate  = "R005"
	CodeUnparsableURL    = "R010"
	CodeMissingSignal    = "R020"
	CodeNotImplemented   = "R030"
	CodeParamType        = "R040"
	CodeParamMismatch    = "R041"
	CodeConfigFile       = "R050"
	CodeConfigFileFormat = "R051"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Configuration Errors (R001-R009)
	// ============================================

	CodeRoutesNotArray: {
		Kind:    KindConfig,
		Message: "routes must be defined as an array.",
		Detail:  "The route table is compiled from a list of routes. Maps keyed by path are not accepted.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R001",
	},
	CodePropsNoSignal: {
		Kind:    KindConfig,
		Message: "Route has props mappings but no signal was defined.",
		Detail:  "Props mappings build the payload of the route's signal. Without a signal there is nothing to receive them.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R002",
	},
	CodeDuplicateSignal: {
		Kind:    KindConfig,
		Message: "Signal bound to more than one route.",
		Detail:  "A signal can only be bound to one route, otherwise the URL it produces is ambiguous.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R003",
	},
	CodeInvalidOption: {
		Kind:    KindConfig,
		Message: "Invalid router option.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R004",
	},
	CodeInvalidTemplate: {
		Kind:    KindConfig,
		Message: "Invalid path template.",
		Detail:  "The path template could not be compiled into a matcher.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R005",
	},

	// ============================================
	// Runtime Errors (R010-R049)
	// ============================================

	CodeUnparsableURL: {
		Kind:    KindMatch,
		Message: "Could not parse url.",
		Detail:  "The URL mapper failed while matching the URL against the route table.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R010",
	},
	CodeMissingSignal: {
		Kind:    KindMissingSignal,
		Message: "Signal does not exist.",
		Detail:  "A route names a signal that the host runtime does not know about.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R020",
	},
	CodeNotImplemented: {
		Kind:    KindNotImplemented,
		Message: "Value extraction not implemented.",
		Detail:  "A custom resolvable value was used without an extractor function.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R030",
	},
	CodeParamType: {
		Kind:    KindParam,
		Message: "Route parameter has the wrong type.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R040",
	},
	CodeParamMismatch: {
		Kind:    KindParam,
		Message: "Route parameter does not match its pattern.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R041",
	},

	// ============================================
	// Route File Errors (R050-R059)
	// ============================================

	CodeConfigFile: {
		Kind:    KindConfig,
		Message: "Failed to read route file.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R050",
	},
	CodeConfigFileFormat: {
		Kind:    KindConfig,
		Message: "Route file is malformed.",
		Detail:  "Route files are JSON or YAML documents with a top-level \"routes\" list.",
		DocURL:  "https://vango.dev/docs/routesync/errors/R051",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
