package main

// Command names
const (
	CmdNameValidate = "validate"
	CmdNameRender   = "render"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Flag names - long form
const (
	FlagAgent   = "agent"
	FlagPayload = "payload"
	FlagHeader  = "header"
	FlagOutput  = "output"
	FlagFormat  = "format"
)

// Flag names - short form
const (
	FlagAgentShort   = "a"
	FlagPayloadShort = "p"
	FlagHeaderShort  = "H"
	FlagOutputShort  = "o"
	FlagFormatShort  = "F"
)

// Flag default values
const (
	FlagDefaultOutput = "-" // stdout
	FlagDefaultFormat = "text"
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Error messages - ALL must be constants
const (
	ErrMsgMissingAgent      = "agent document required"
	ErrMsgMissingPayload    = "payload required"
	ErrMsgInvalidHeader     = "invalid header, expected 'Name: value'"
	ErrMsgInvalidFormat     = "invalid output format"
	ErrMsgReadFileFailed    = "failed to read file"
	ErrMsgReadStdinFailed   = "failed to read from stdin"
	ErrMsgWriteOutputFailed = "failed to write output"
	ErrMsgLoadAgentFailed   = "agent loading failed"
	ErrMsgNoWebhookPrompt   = "document declares no webhook interface"
	ErrMsgInvalidJSON       = "invalid JSON payload"
	ErrMsgCreateFileFailed  = "failed to create output file"
	ErrMsgUnknownCommand    = "unknown command"
)

// Help text templates
const (
	HelpMainUsage = `go-afm - Agent-flavored Markdown interpreter CLI

Usage:
    afm <command> [options]

Commands:
    validate    Parse and validate an agent document
    render      Render a webhook prompt against a JSON payload
    version     Show version information
    help        Show help for a command

Use "afm help <command>" for more information about a command.`

	HelpValidateUsage = `Parse and validate an agent document

Usage:
    afm validate [options]

Options:
    -a, --agent <file>      Agent document (use "-" for stdin)
    -F, --format <format>   Output format: text, json (default: text)

Examples:
    afm validate -a agent.afm
    afm validate -a agent.afm -F json
    cat agent.afm | afm validate -a -`

	HelpRenderUsage = `Render a webhook prompt against a JSON payload

Usage:
    afm render [options]

Options:
    -a, --agent <file>      Agent document (use "-" for stdin)
    -p, --payload <file>    JSON payload file (use "-" for stdin)
    -H, --header <h>        Request header as 'Name: value' (repeatable)
    -o, --output <file>     Output file (default: stdout)

Examples:
    afm render -a agent.afm -p event.json
    afm render -a agent.afm -p event.json -H 'X-Request-ID: req-42'
    cat event.json | afm render -a agent.afm -p -`

	HelpVersionUsage = `Show version information

Usage:
    afm version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    afm help [command]

Commands:
    validate    Show help for validate command
    render      Show help for render command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-afm version %s\nCommit: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
	VersionDevel        = "(devel)"
)

// debug.BuildInfo setting keys carrying VCS metadata
const (
	BuildInfoKeyRevision = "vcs.revision"
	BuildInfoKeyTime     = "vcs.time"
)

// Validation output text
const (
	ValidationTextSuccess       = "Document is valid"
	ValidationTextInterfaceLine = "  interface: %s (path %s)"
	ValidationTextConsoleLine   = "  interface: consolechat"
	ValidationTextToolLine      = "  mcp server: %s"
)

// CLI metadata
const (
	CLIName        = "afm"
	CLIDescription = "Agent-flavored Markdown interpreter CLI"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
