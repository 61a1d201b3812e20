package afm

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Document parse errors
	ErrMsgMissingFrontmatter  = "document must start with '---' frontmatter delimiter"
	ErrMsgUnclosedFrontmatter = "unclosed frontmatter - missing closing '---'"
	ErrMsgYAMLDecodeFailed    = "invalid YAML in frontmatter"

	// Variable resolution errors
	ErrMsgVariableNotFound  = "environment variable not found or empty"
	ErrMsgUnsupportedPrefix = "unsupported variable prefix - only 'env:' and 'http:' are supported"

	// Scope errors
	ErrMsgScopeViolation = "http: variables are only supported in webhook prompt fields"

	// Interface errors
	ErrMsgDuplicateInterface     = "Multiple interfaces of the same type are not supported"
	ErrMsgUnknownInterfaceType   = "unknown interface type"
	ErrMsgWebhookNoSubscription  = "webhook interface requires a subscription"
	ErrMsgWebhookNotDeclared     = "document declares no webhook interface"
	ErrMsgAuthMissingCredentials = "authentication type is missing its required fields"

	// Schema errors
	ErrMsgSchemaCompileFailed = "signature schema compilation failed"

	// Webhook errors
	ErrMsgInvalidSignature = "invalid webhook signature"
	ErrMsgInvalidPayload   = "invalid JSON payload"
	ErrMsgNoRunner         = "no agent runner configured"
	ErrMsgWebSubRejected   = "websub hub rejected the request"

	// Runner registry errors
	ErrMsgRunnerNotFound = "runner not found"
	ErrMsgNoRunners      = "no agent runner backends registered"
	ErrMsgRunnerExists   = "runner already registered"

	// Storage errors
	ErrMsgAgentNotFound        = "agent not found"
	ErrMsgStorageClosed        = "storage is closed"
	ErrMsgInvalidStorageRoot   = "storage root directory cannot be empty"
	ErrMsgInvalidAgentName     = "invalid agent name"
	ErrMsgEmptyConnString      = "postgres connection string cannot be empty"
	ErrMsgUnknownStorageDriver = "unknown storage driver"
	ErrMsgNoStorage            = "no agent storage configured"
	ErrMsgStorageIO            = "storage backend operation failed"
)

// Error code constants for categorization
const (
	ErrCodeParse     = "AFM_PARSE"
	ErrCodeVariable  = "AFM_VARIABLE"
	ErrCodeScope     = "AFM_SCOPE"
	ErrCodeInterface = "AFM_INTERFACE"
	ErrCodeSchema    = "AFM_SCHEMA"
	ErrCodeWebhook   = "AFM_WEBHOOK"
	ErrCodeRunner    = "AFM_RUNNER"
	ErrCodeStorage   = "AFM_STORAGE"
)

// Metadata keys attached to errors
const (
	MetaKeyVariable  = "variable"
	MetaKeyPrefix    = "prefix"
	MetaKeyFields    = "fields"
	MetaKeyInterface = "interface"
	MetaKeyReason    = "reason"
	MetaKeyRunner    = "runner"
	MetaKeyAvailable = "available"
	MetaKeyAgent     = "agent"
	MetaKeyDriver    = "driver"
	MetaKeyAuthType  = "auth_type"
	MetaKeySchema    = "schema"
)

// NewMissingFrontmatterError reports a document that does not open with ---.
func NewMissingFrontmatterError() error {
	return cuserr.NewValidationError(ErrCodeParse, ErrMsgMissingFrontmatter)
}

// NewUnclosedFrontmatterError reports frontmatter without a closing delimiter.
func NewUnclosedFrontmatterError() error {
	return cuserr.NewValidationError(ErrCodeParse, ErrMsgUnclosedFrontmatter)
}

// NewYAMLDecodeError wraps a yaml.v3 decode failure.
func NewYAMLDecodeError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeParse, ErrMsgYAMLDecodeFailed)
}

// NewVariableNotFoundError reports a ${NAME} reference with no value.
func NewVariableNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyVariable, ErrMsgVariableNotFound).
		WithMetadata(MetaKeyVariable, name)
}

// NewUnsupportedPrefixError reports a ${prefix:...} expression with an
// unknown prefix.
func NewUnsupportedPrefixError(prefix string) error {
	return cuserr.NewValidationError(ErrCodeVariable, ErrMsgUnsupportedPrefix).
		WithMetadata(MetaKeyPrefix, prefix)
}

// NewScopeViolationError reports ${http:...} expressions outside a webhook
// prompt field, naming every offending field path.
func NewScopeViolationError(fields []string) error {
	return cuserr.NewValidationError(ErrCodeScope, ErrMsgScopeViolation).
		WithMetadata(MetaKeyFields, strings.Join(fields, ", "))
}

// NewInterfaceConfigError reports an invalid interface declaration.
func NewInterfaceConfigError(reason string) error {
	return cuserr.NewValidationError(ErrCodeInterface, reason)
}

// NewUnknownInterfaceTypeError reports an unrecognized type discriminator.
func NewUnknownInterfaceTypeError(typ string) error {
	return cuserr.NewValidationError(ErrCodeInterface, ErrMsgUnknownInterfaceType).
		WithMetadata(MetaKeyInterface, typ)
}

// NewAuthConfigError reports a ClientAuthentication missing the fields its
// type requires.
func NewAuthConfigError(authType string) error {
	return cuserr.NewValidationError(ErrCodeInterface, ErrMsgAuthMissingCredentials).
		WithMetadata(MetaKeyAuthType, authType)
}

// NewSchemaCompileError wraps a jsonschema compilation failure.
func NewSchemaCompileError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeSchema, ErrMsgSchemaCompileFailed)
}

// NewInvalidSignatureError reports a rejected webhook signature.
func NewInvalidSignatureError() error {
	return cuserr.NewValidationError(ErrCodeWebhook, ErrMsgInvalidSignature)
}

// NewInvalidPayloadError reports a webhook body that is not valid JSON.
func NewInvalidPayloadError(cause error) error {
	if cause != nil {
		return cuserr.WrapStdError(cause, ErrCodeWebhook, ErrMsgInvalidPayload)
	}
	return cuserr.NewValidationError(ErrCodeWebhook, ErrMsgInvalidPayload)
}

// NewWebSubRejectedError reports a non-2xx hub response to a subscription
// request.
func NewWebSubRejectedError(status int) error {
	return cuserr.NewValidationError(ErrCodeWebhook, ErrMsgWebSubRejected).
		WithMetadata(MetaKeyReason, strconv.Itoa(status))
}

// NewRunnerNotFoundError reports a request for an unregistered runner.
func NewRunnerNotFoundError(name string, available []string) error {
	return cuserr.NewNotFoundError(MetaKeyRunner, ErrMsgRunnerNotFound).
		WithMetadata(MetaKeyRunner, name).
		WithMetadata(MetaKeyAvailable, strings.Join(available, ", "))
}

// NewNoRunnersError reports an empty runner registry.
func NewNoRunnersError() error {
	return cuserr.NewNotFoundError(MetaKeyRunner, ErrMsgNoRunners)
}

// NewAgentNotFoundError reports a storage lookup miss.
func NewAgentNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyAgent, ErrMsgAgentNotFound).
		WithMetadata(MetaKeyAgent, name)
}

// NewStorageClosedError reports an operation on closed storage.
func NewStorageClosedError() error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgStorageClosed)
}

// NewNoStorageError reports a storage operation on an interpreter without a
// configured backend.
func NewNoStorageError() error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgNoStorage)
}

// NewInvalidAgentNameError reports an agent name unsafe for storage keys.
func NewInvalidAgentNameError(name string) error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgInvalidAgentName).
		WithMetadata(MetaKeyAgent, name)
}

// NewInvalidStorageRootError reports an empty filesystem storage root.
func NewInvalidStorageRootError() error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgInvalidStorageRoot)
}

// NewEmptyConnStringError reports a postgres config without a DSN.
func NewEmptyConnStringError() error {
	return cuserr.NewValidationError(ErrCodeStorage, ErrMsgEmptyConnString)
}

// NewStorageIOError wraps a backend I/O failure.
func NewStorageIOError(cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeStorage, ErrMsgStorageIO)
}

// NewUnknownStorageDriverError reports an unregistered storage driver name.
func NewUnknownStorageDriverError(driver string) error {
	return cuserr.NewNotFoundError(MetaKeyDriver, ErrMsgUnknownStorageDriver).
		WithMetadata(MetaKeyDriver, driver)
}

// PathErrorKind classifies JSON path resolution failures.
type PathErrorKind int

// Path resolution failure kinds. These never escape template evaluation:
// the evaluator converts every PathError into an empty-string substitution.
const (
	PathNotFound PathErrorKind = iota
	PathTypeMismatch
	PathInvalidIndex
	PathIndexOutOfBounds
)

// String returns the kind name for logging.
func (k PathErrorKind) String() string {
	switch k {
	case PathNotFound:
		return "not_found"
	case PathTypeMismatch:
		return "type_mismatch"
	case PathInvalidIndex:
		return "invalid_index"
	case PathIndexOutOfBounds:
		return "index_out_of_bounds"
	default:
		return "unknown"
	}
}

// PathError describes a JSON path resolution failure. It stays internal to
// template evaluation and carries the remaining path where resolution stopped.
type PathError struct {
	Kind   PathErrorKind
	Path   string
	Detail string
}

// Error implements the error interface.
func (e *PathError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("json path %s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("json path %s: %s (%s)", e.Path, e.Kind, e.Detail)
}
