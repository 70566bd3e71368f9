package audit

import (
	"fmt"
	"strings"
)

// ServiceTokenEvent records a client-credentials token issuance.
type ServiceTokenEvent struct {
	ClientID     string
	ClientIP     string
	Scopes       []string
	Success      bool
	ErrorMessage string
}

func (e ServiceTokenEvent) MessageID() string {
	return "service-token"
}

func (e ServiceTokenEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("service %s obtained an access token", e.ClientID)
	}
	msg := fmt.Sprintf("service token request for %s failed", e.ClientID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e ServiceTokenEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e ServiceTokenEvent) Facility() int {
	return FacilityAuthPriv
}

func (e ServiceTokenEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"client": e.ClientID,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if len(e.Scopes) > 0 {
		sd[SDIDAuth]["scopes"] = strings.Join(e.Scopes, " ")
	}
	return sd
}
