package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultDisplayName is used when the session carries neither a name nor an e-mail.
const DefaultDisplayName = "User"

// User is the authenticated identity as reported by the hosted auth backend.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName,omitempty"`
	DisplayName string `json:"displayName"`
}

// ResolveDisplayName picks the full name, then the e-mail local part, then DefaultDisplayName.
func ResolveDisplayName(fullName, email string) string {
	if name := strings.TrimSpace(fullName); name != "" {
		return name
	}
	if local, _, _ := strings.Cut(email, "@"); local != "" {
		return local
	}
	return DefaultDisplayName
}

// Profile holds the editable account information shown on the settings page.
type Profile struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// SecuritySetting names one of the security toggles.
type SecuritySetting string

const (
	SettingTwoFactor         SecuritySetting = "two-factor"
	SettingLoginAlerts       SecuritySetting = "login-alerts"
	SettingTransactionAlerts SecuritySetting = "transaction-alerts"
)

// Label is the human readable name used in notifications.
func (s SecuritySetting) Label() string {
	switch s {
	case SettingTwoFactor:
		return "Two-Factor Authentication"
	case SettingLoginAlerts:
		return "Login Alerts"
	case SettingTransactionAlerts:
		return "Transaction Alerts"
	}
	return ""
}

// SecuritySettings are display-only preferences; none of them changes how transfers are confirmed.
type SecuritySettings struct {
	TwoFactorEnabled  bool `json:"twoFactorEnabled"`
	LoginAlerts       bool `json:"loginAlerts"`
	TransactionAlerts bool `json:"transactionAlerts"`
}

// DefaultSecuritySettings has every toggle switched on.
func DefaultSecuritySettings() SecuritySettings {
	return SecuritySettings{TwoFactorEnabled: true, LoginAlerts: true, TransactionAlerts: true}
}

// LoginStatus classifies a login activity entry.
type LoginStatus string

const (
	LoginStatusCurrent LoginStatus = "current"
	LoginStatusSuccess LoginStatus = "success"
	LoginStatusBlocked LoginStatus = "blocked"
)

// LoginActivity is one row of the recent login list.
type LoginActivity struct {
	ID       string      `json:"id"`
	Device   string      `json:"device"`
	Location string      `json:"location"`
	Time     string      `json:"time"`
	Status   LoginStatus `json:"status"`
}

// StatCard is a headline figure with a month-over-month trend.
type StatCard struct {
	Title         string          `json:"title"`
	Value         decimal.Decimal `json:"value"`
	ValueDisplay  string          `json:"valueDisplay"`
	TrendPercent  int             `json:"trendPercent"`
	TrendPositive bool            `json:"trendPositive"`
}

// AccountSummary is the bank card shown on the dashboard.
type AccountSummary struct {
	HolderName           string          `json:"holderName"`
	AccountNumber        string          `json:"accountNumber"`
	AccountNumberDisplay string          `json:"accountNumberDisplay"`
	Balance              decimal.Decimal `json:"balance"`
	BalanceDisplay       string          `json:"balanceDisplay"`
}
