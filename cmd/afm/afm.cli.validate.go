package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	afm "github.com/itsatony/go-afm"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	agentPath string
	format    string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid      bool                      `json:"valid"`
	Name       string                    `json:"name,omitempty"`
	Error      string                    `json:"error,omitempty"`
	Interfaces []validationInterfaceInfo `json:"interfaces,omitempty"`
	MCPServers []string                  `json:"mcp_servers,omitempty"`
}

type validationInterfaceInfo struct {
	Type string `json:"type"`
	Path string `json:"path,omitempty"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMissingAgent, err)
		return ExitCodeUsageError
	}

	source, err := readInput(cfg.agentPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	interp := afm.MustNew()
	agent, loadErr := interp.Load(source)

	if cfg.format == OutputFormatJSON {
		return outputValidationJSON(agent, loadErr, stdout)
	}
	return outputValidationText(agent, loadErr, stdout, stderr)
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &validateConfig{}

	fs.StringVar(&cfg.agentPath, FlagAgent, "", "")
	fs.StringVar(&cfg.agentPath, FlagAgentShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.agentPath == "" {
		return nil, errors.New(ErrMsgMissingAgent)
	}

	if cfg.format != OutputFormatText && cfg.format != OutputFormatJSON {
		return nil, errors.New(ErrMsgInvalidFormat)
	}

	return cfg, nil
}

func outputValidationText(agent *afm.Agent, loadErr error, stdout, stderr io.Writer) int {
	if loadErr != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgLoadAgentFailed, loadErr)
		return ExitCodeValidationError
	}

	fmt.Fprintln(stdout, ValidationTextSuccess)
	for _, info := range interfaceInfos(agent) {
		if info.Path == "" {
			fmt.Fprintln(stdout, ValidationTextConsoleLine)
			continue
		}
		fmt.Fprintf(stdout, ValidationTextInterfaceLine+FmtNewline, info.Type, info.Path)
	}
	for _, server := range mcpServerNames(agent) {
		fmt.Fprintf(stdout, ValidationTextToolLine+FmtNewline, server)
	}
	return ExitCodeSuccess
}

func outputValidationJSON(agent *afm.Agent, loadErr error, stdout io.Writer) int {
	output := validationOutput{Valid: loadErr == nil}
	if loadErr != nil {
		output.Error = loadErr.Error()
	} else {
		output.Name = agent.Document.Metadata.Name
		output.Interfaces = interfaceInfos(agent)
		output.MCPServers = mcpServerNames(agent)
	}

	jsonBytes, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(stdout, string(jsonBytes))

	if !output.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func interfaceInfos(agent *afm.Agent) []validationInterfaceInfo {
	var infos []validationInterfaceInfo
	if agent.Interfaces.Console != nil {
		infos = append(infos, validationInterfaceInfo{Type: afm.InterfaceTypeConsoleChat})
	}
	if agent.Interfaces.Web != nil {
		infos = append(infos, validationInterfaceInfo{
			Type: afm.InterfaceTypeWebChat,
			Path: agent.Interfaces.Web.Exposure.HTTP.Path,
		})
	}
	if agent.Interfaces.Webhook != nil {
		infos = append(infos, validationInterfaceInfo{
			Type: afm.InterfaceTypeWebhook,
			Path: agent.Interfaces.Webhook.Exposure.HTTP.Path,
		})
	}
	return infos
}

func mcpServerNames(agent *afm.Agent) []string {
	tools := agent.Document.Metadata.Tools
	if tools == nil {
		return nil
	}
	names := make([]string, 0, len(tools.MCP))
	for _, server := range tools.MCP {
		names = append(names, server.Name)
	}
	return names
}
