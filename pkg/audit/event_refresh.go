package audit

import "fmt"

// TokenRefreshEvent records a refresh-token exchange.
type TokenRefreshEvent struct {
	Provider     string
	Subject      string
	ClientIP     string
	Success      bool
	ErrorMessage string
}

func (e TokenRefreshEvent) MessageID() string {
	return "refresh"
}

func (e TokenRefreshEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s:%s refreshed their access token", e.Provider, e.Subject)
	}
	msg := fmt.Sprintf("token refresh via %s failed", e.Provider)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e TokenRefreshEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e TokenRefreshEvent) Facility() int {
	return FacilityAuthPriv
}

func (e TokenRefreshEvent) StructuredData() map[string]map[string]string {
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
