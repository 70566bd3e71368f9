package audit

import "fmt"

// LoginEvent records an end-user login through an upstream provider.
type LoginEvent struct {
	Provider     string
	Subject      string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e LoginEvent) MessageID() string {
	return "login"
}

func (e LoginEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s:%s successfully logged in via %s", e.Provider, e.Subject, e.Provider)
	}
	msg := fmt.Sprintf("login via %s failed", e.Provider)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e LoginEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e LoginEvent) Facility() int {
	return FacilityAuthPriv
}

func (e LoginEvent) StructuredData() map[string]map[string]string {
	sd := map[string]map[string]string{
		SDIDAuth: {
			"provider": e.Provider,
		},
		SDIDClient: {
			"ip": e.ClientIP,
		},
	}
	if e.Subject != "" {
		sd[SDIDAuth]["subject"] = e.Subject
	}
	return sd
}
