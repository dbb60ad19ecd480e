package models

// Причины решения о доступе к курсу.
const (
	AccessReasonAdmin   = "admin_access"
	AccessReasonFree    = "free_course"
	AccessReasonTrial   = "trial_access"
	AccessReasonPremium = "premium_access"
	AccessReasonNone    = "no_access"
)

// AccessDecision — результат проверки доступа пользователя к курсу.
// Subscription заполняется, только если доступ выдан по подписке.
type AccessDecision struct {
	CanAccess    bool          `json:"can_access"`
	Reason       string        `json:"reason"`
	Message      string        `json:"message,omitempty"`
	Course       *Course       `json:"course,omitempty"`
	Subscription *Subscription `json:"subscription,omitempty"`
}
