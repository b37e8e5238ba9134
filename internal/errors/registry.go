package errors

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
	DocURL   string
}

const docBase = "https://livedom.dev/docs/errors/"

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (L100-L199)
	// ============================================

	"L101": {
		Category: CategoryRuntime,
		Message:  "Invalid event handler",
		Detail:   "Attributes starting with \"on\" bind event listeners and must hold a handler function.",
		DocURL:   docBase + "L101",
	},
	"L102": {
		Category: CategoryRuntime,
		Message:  "Duplicate list key",
		Detail:   "Two items in one list update resolved to the same key. The update was aborted and the list keeps its previous state.",
		DocURL:   docBase + "L102",
	},
	"L103": {
		Category: CategoryRuntime,
		Message:  "Invalid list key",
		Detail:   "List keys are used as map keys and must be comparable values.",
		DocURL:   docBase + "L103",
	},
	"L104": {
		Category: CategoryRuntime,
		Message:  "Invalid child",
		Detail:   "Children must be elements, strings, numbers, params or slices of those.",
		DocURL:   docBase + "L104",
	},
	"L105": {
		Category: CategoryRuntime,
		Message:  "List item factory failed",
		Detail:   "The factory returned an error while building a new list item.",
		DocURL:   docBase + "L105",
	},
	"L106": {
		Category: CategoryRuntime,
		Message:  "Tree operation failed",
		Detail:   "A node could not be inserted or removed.",
		DocURL:   docBase + "L106",
	},
	"L107": {
		Category: CategoryRuntime,
		Message:  "Handler panic",
		Detail:   "An event handler panicked. The panic was recovered and the session keeps running.",
		DocURL:   docBase + "L107",
	},
	"L108": {
		Category: CategoryRuntime,
		Message:  "Invalid attribute value",
		Detail:   "Only attributes starting with \"on\" may hold functions. Computed values must be params.",
		DocURL:   docBase + "L108",
	},

	// ============================================
	// Protocol Errors (L200-L299)
	// ============================================

	"L201": {
		Category: CategoryProtocol,
		Message:  "Invalid frame",
		Detail:   "The websocket message could not be decoded as a frame.",
		DocURL:   docBase + "L201",
	},
	"L202": {
		Category: CategoryProtocol,
		Message:  "Invalid event",
		Detail:   "The event payload is malformed or missing required fields.",
		DocURL:   docBase + "L202",
	},
	"L203": {
		Category: CategoryProtocol,
		Message:  "Frame too large",
		Detail:   "A single patch exceeds the maximum frame payload.",
		DocURL:   docBase + "L203",
	},
	"L204": {
		Category: CategoryProtocol,
		Message:  "Unknown event target",
		Detail:   "The event targets a node that is no longer attached to the document.",
		DocURL:   docBase + "L204",
	},

	// ============================================
	// Config Errors (L300-L399)
	// ============================================

	"L301": {
		Category: CategoryConfig,
		Message:  "Invalid configuration file",
		Detail:   "livedom.json could not be read or parsed.",
		DocURL:   docBase + "L301",
	},
	"L302": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No livedom.json was found.",
		DocURL:   docBase + "L302",
	},
	"L303": {
		Category: CategoryConfig,
		Message:  "Invalid configuration value",
		Detail:   "A configuration value is out of range.",
		DocURL:   docBase + "L303",
	},

	// ============================================
	// Storage Errors (L400-L499)
	// ============================================

	"L401": {
		Category: CategoryStorage,
		Message:  "Snapshot write failed",
		Detail:   "The rendered page could not be stored.",
		DocURL:   docBase + "L401",
	},
	"L402": {
		Category: CategoryStorage,
		Message:  "Snapshot not found",
		Detail:   "No snapshot is stored under this key.",
		DocURL:   docBase + "L402",
	},
	"L403": {
		Category: CategoryStorage,
		Message:  "Invalid snapshot key",
		Detail:   "Snapshot keys must be relative paths without \"..\" segments.",
		DocURL:   docBase + "L403",
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

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
