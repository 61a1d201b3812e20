package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	afm "github.com/itsatony/go-afm"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	agentPath   string
	payloadPath string
	headers     afm.Headers
	outputPath  string
}

// headerFlags collects repeated -H flags.
type headerFlags struct {
	headers afm.Headers
}

func (h *headerFlags) String() string { return "" }

func (h *headerFlags) Set(value string) error {
	name, val, found := strings.Cut(value, ":")
	if !found || strings.TrimSpace(name) == "" {
		return errors.New(ErrMsgInvalidHeader)
	}
	if h.headers == nil {
		h.headers = afm.Headers{}
	}
	name = strings.TrimSpace(name)
	h.headers[name] = append(h.headers[name], strings.TrimSpace(val))
	return nil
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingAgent, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.agentPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	payload, err := readInput(cfg.payloadPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	interp := afm.MustNew()
	agent, err := interp.Load(source)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadAgentFailed, err)
		return ExitCodeValidationError
	}

	handler, err := agent.Webhook()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithDetail, ErrMsgLoadAgentFailed, ErrMsgNoWebhookPrompt)
		return ExitCodeValidationError
	}

	prompt, err := handler.BuildPrompt(payload, cfg.headers)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidJSON, err)
		return ExitCodeInputError
	}

	if err := writeOutput(cfg.outputPath, []byte(prompt+"\n"), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}
	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}
	var headers headerFlags

	fs.StringVar(&cfg.agentPath, FlagAgent, "", "")
	fs.StringVar(&cfg.agentPath, FlagAgentShort, "", "")
	fs.StringVar(&cfg.payloadPath, FlagPayload, "", "")
	fs.StringVar(&cfg.payloadPath, FlagPayloadShort, "", "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")
	fs.Var(&headers, FlagHeader, "")
	fs.Var(&headers, FlagHeaderShort, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.agentPath == "" {
		return nil, errors.New(ErrMsgMissingAgent)
	}
	if cfg.payloadPath == "" {
		return nil, errors.New(ErrMsgMissingPayload)
	}

	cfg.headers = headers.headers
	return cfg, nil
}
