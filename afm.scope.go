package afm

import "strings"

// validateHTTPScope rejects documents carrying ${http:...} expressions
// anywhere other than a webhook interface's prompt field. Every offending
// field path is collected so the operator sees the full list at once.
func validateHTTPScope(doc *Document) error {
	var fields []string

	if containsHTTPVariable(doc.Role) {
		fields = append(fields, "role")
	}
	if containsHTTPVariable(doc.Instructions) {
		fields = append(fields, "instructions")
	}

	m := &doc.Metadata

	simple := []struct {
		name  string
		value string
	}{
		{"spec_version", m.SpecVersion},
		{"name", m.Name},
		{"description", m.Description},
		{"version", m.Version},
		{"author", m.Author},
		{"icon_url", m.IconURL},
		{"license", m.License},
	}
	for _, f := range simple {
		if containsHTTPVariable(f.value) {
			fields = append(fields, f.name)
		}
	}

	for _, author := range m.Authors {
		if containsHTTPVariable(author) {
			fields = append(fields, "authors")
			break
		}
	}

	if m.Provider != nil {
		if containsHTTPVariable(m.Provider.Name) {
			fields = append(fields, "provider.name")
		}
		if containsHTTPVariable(m.Provider.URL) {
			fields = append(fields, "provider.url")
		}
	}

	if m.Model != nil {
		if containsHTTPVariable(m.Model.Name) {
			fields = append(fields, "model.name")
		}
		if containsHTTPVariable(m.Model.Provider) {
			fields = append(fields, "model.provider")
		}
		if containsHTTPVariable(m.Model.URL) {
			fields = append(fields, "model.url")
		}
		if authContainsHTTPVariable(m.Model.Authentication) {
			fields = append(fields, "model.authentication")
		}
	}

	for _, iface := range m.Interfaces {
		// The webhook prompt field is the single place where http:
		// variables are legal, so it is deliberately not scanned.
		prefix := "interfaces." + iface.Type
		if signatureContainsHTTPVariable(iface.Signature) {
			fields = append(fields, prefix+".signature")
		}
		if exposureContainsHTTPVariable(iface.Exposure) {
			fields = append(fields, prefix+".exposure")
		}
		if subscriptionContainsHTTPVariable(iface.Subscription) {
			fields = append(fields, prefix+".subscription")
		}
	}

	if m.Tools != nil {
		for _, server := range m.Tools.MCP {
			if containsHTTPVariable(server.Name) {
				fields = append(fields, "tools.mcp.name")
			}
			if containsHTTPVariable(server.Transport.URL) {
				fields = append(fields, "tools.mcp.transport.url")
			}
			if authContainsHTTPVariable(server.Transport.Authentication) {
				fields = append(fields, "tools.mcp.transport.authentication")
			}
			if toolFilterContainsHTTPVariable(server.ToolFilter) {
				fields = append(fields, "tools.mcp.tool_filter")
			}
		}
	}

	if len(fields) > 0 {
		return NewScopeViolationError(fields)
	}
	return nil
}

func containsHTTPVariable(s string) bool {
	return strings.Contains(s, HTTPVariableMarker)
}

func authContainsHTTPVariable(auth *ClientAuthentication) bool {
	for _, v := range auth.stringFields() {
		if containsHTTPVariable(v) {
			return true
		}
	}
	return false
}

func signatureContainsHTTPVariable(sig *Signature) bool {
	if sig == nil {
		return false
	}
	return schemaContainsHTTPVariable(sig.Input) || schemaContainsHTTPVariable(sig.Output)
}

func schemaContainsHTTPVariable(schema *JSONSchema) bool {
	if schema == nil {
		return false
	}
	if containsHTTPVariable(schema.Type) || containsHTTPVariable(schema.Description) {
		return true
	}
	for _, req := range schema.Required {
		if containsHTTPVariable(req) {
			return true
		}
	}
	for _, prop := range schema.Properties {
		if schemaContainsHTTPVariable(prop) {
			return true
		}
	}
	return schemaContainsHTTPVariable(schema.Items)
}

func exposureContainsHTTPVariable(exp *Exposure) bool {
	if exp == nil || exp.HTTP == nil {
		return false
	}
	return containsHTTPVariable(exp.HTTP.Path)
}

func subscriptionContainsHTTPVariable(sub *Subscription) bool {
	if sub == nil {
		return false
	}
	if containsHTTPVariable(sub.Protocol) ||
		containsHTTPVariable(sub.Hub) ||
		containsHTTPVariable(sub.Topic) ||
		containsHTTPVariable(sub.Callback) ||
		containsHTTPVariable(sub.Secret) {
		return true
	}
	return authContainsHTTPVariable(sub.Authentication)
}

func toolFilterContainsHTTPVariable(filter *ToolFilter) bool {
	if filter == nil {
		return false
	}
	for _, tool := range filter.Allow {
		if containsHTTPVariable(tool) {
			return true
		}
	}
	for _, tool := range filter.Deny {
		if containsHTTPVariable(tool) {
			return true
		}
	}
	return false
}
