package afm

import "time"

// Variable expression delimiters - the ${...} syntax from the AFM specification
const (
	VariableOpenDelim  = "${"
	VariableCloseDelim = "}"
)

// Variable expression prefixes
const (
	VariablePrefixEnv  = "env"
	VariablePrefixHTTP = "http"
)

// HTTPVariableMarker is the literal that identifies a deferred http variable.
// Outside a webhook prompt field its presence is a scope violation.
const HTTPVariableMarker = "${http:"

// HTTP variable sub-prefixes inside webhook prompt templates
const (
	HTTPVarPayload = "payload"
	HTTPVarHeader  = "header"
)

// YAML frontmatter constants
const (
	// FrontmatterDelimiter is the standard YAML frontmatter delimiter
	FrontmatterDelimiter = "---"
)

// Markdown section headings recognized in the document body
const (
	HeadingMarker       = "# "
	HeadingRole         = "role"
	HeadingInstructions = "instructions"
)

// Interface type discriminator values
const (
	InterfaceTypeConsoleChat = "consolechat"
	InterfaceTypeWebChat     = "webchat"
	InterfaceTypeWebhook     = "webhook"
)

// Interface exposure defaults
const (
	DefaultChatPath    = "/chat"
	DefaultWebhookPath = "/webhook"
)

// DefaultSchemaType is the signature schema applied when a document omits one.
const DefaultSchemaType = "string"

// MCP transport types
const (
	TransportTypeHTTP = "http"
)

// Client authentication types
const (
	AuthTypeBearer = "bearer"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "api-key"
)

// Webhook signature headers and algorithms
const (
	SignatureHeaderSHA256 = "X-Hub-Signature-256"
	SignatureHeaderLegacy = "X-Hub-Signature"
	SignatureAlgoSHA1     = "sha1"
	SignatureAlgoSHA256   = "sha256"
	SignatureAlgoSHA512   = "sha512"
)

// WebSub protocol constants
const (
	WebSubModeSubscribe   = "subscribe"
	WebSubModeUnsubscribe = "unsubscribe"
	WebSubDefaultLease    = 86400 // seconds, 24 hours
)

// HeaderValueSeparator joins multi-valued headers during template evaluation.
const HeaderValueSeparator = ", "

// Storage driver names
const (
	StorageDriverNameMemory     = "memory"
	StorageDriverNameFilesystem = "filesystem"
	StorageDriverNamePostgres   = "postgres"
)

// Filesystem storage constants
const (
	FilesystemDirPermissions  = 0o755
	FilesystemFilePermissions = 0o644
	AgentFileExtension        = ".afm"
)

// Postgres storage defaults
const (
	PostgresTablePrefix            = "afm_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// Config environment prefix - AFM_LOG_LEVEL maps to log.level
const (
	ConfigEnvPrefix   = "AFM_"
	ConfigKeyDelim    = "."
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
	LogFormatJSON     = "json"
	LogFormatConsole  = "console"
	DefaultStorageDrv = StorageDriverNameMemory
)

// Log messages
const (
	LogMsgDocumentParsed       = "document parsed"
	LogMsgVariableResolved     = "variable resolved"
	LogMsgTemplateCompiled     = "webhook template compiled"
	LogMsgPayloadPathSkipped   = "payload path unresolvable - substituting empty string"
	LogMsgHeaderMissing        = "header not found - substituting empty string"
	LogMsgPayloadMarshalFailed = "payload serialization failed - substituting empty string"
	LogMsgDenyOnlyFilter       = "deny-only tool filter is not fully supported - allowing all tools"
	LogMsgSignatureRejected    = "webhook signature verification failed"
	LogMsgEventReceived        = "webhook event received"
	LogMsgAgentRunFailed       = "agent execution failed"
	LogMsgWebSubRequestSent    = "websub subscription request sent"
	LogMsgWebSubRequestFailed  = "websub subscription request failed"
	LogMsgWebSubVerified       = "websub subscription verified"
	LogMsgWebSubTopicMismatch  = "websub topic mismatch"
	LogMsgAgentLoaded          = "agent loaded"
	LogMsgRunnerRegistered     = "runner registered"
)

// Log field names
const (
	LogFieldName      = "name"
	LogFieldPath      = "path"
	LogFieldKind      = "kind"
	LogFieldHeader    = "header"
	LogFieldVariable  = "variable"
	LogFieldInterface = "interface"
	LogFieldServer    = "server"
	LogFieldTopic     = "topic"
	LogFieldHub       = "hub"
	LogFieldMode      = "mode"
	LogFieldStatus    = "status"
	LogFieldSession   = "session"
	LogFieldRunner    = "runner"
	LogFieldSegments  = "segment_count"
	LogFieldError     = "error"
)
