package catalog

// ===============================
// Risk Tiers
// ===============================

type Tier string

const (
	Tier1 Tier = "tier1" // safe — no friction
	Tier2 Tier = "tier2" // risky — justification required
	Tier3 Tier = "tier3" // dangerous — justification + reauth + delay
)

// ===============================
// Action Descriptors
// ===============================

// ActionDescriptor is the single source of truth for the policy of an
// administrative action. Descriptors are immutable; tier decisions must
// never be made anywhere else.
type ActionDescriptor struct {
	ActionID       string
	Tier           Tier
	Label          string
	Description    string
	WarningMessage string

	RequiresJustification bool
	RequiresReauth        bool
	DelayMinutes          int
	IsReversible          bool

	// SettingKey é vazio para ações que não mexem em settings (ex: ban_user)
	SettingKey  string
	TargetTable string
}

const (
	ActionToggleEmailNotifications = "toggle_email_notifications"
	ActionToggleRegistration       = "toggle_registration"
	ActionChangeRegistrationFee    = "change_registration_fee"
	ActionTogglePayments           = "toggle_payments"
	ActionFreezeSystem             = "freeze_system"
	ActionMaintenanceMode          = "maintenance_mode"
	ActionBanUser                  = "ban_user"
)

var registry = map[string]ActionDescriptor{
	ActionToggleEmailNotifications: {
		ActionID:     ActionToggleEmailNotifications,
		Tier:         Tier1,
		Label:        "Toggle email notifications",
		Description:  "Enable or disable outgoing email notifications.",
		IsReversible: true,
		SettingKey:   "email_notifications",
		TargetTable:  "settings",
	},
	ActionToggleRegistration: {
		ActionID:     ActionToggleRegistration,
		Tier:         Tier1,
		Label:        "Open/close registration",
		Description:  "Open or close the student registration window.",
		IsReversible: true,
		SettingKey:   "registration_open",
		TargetTable:  "settings",
	},
	ActionChangeRegistrationFee: {
		ActionID:              ActionChangeRegistrationFee,
		Tier:                  Tier2,
		Label:                 "Change registration fee",
		Description:           "Set a new registration fee amount.",
		WarningMessage:        "The new fee applies to every registration from now on.",
		RequiresJustification: true,
		IsReversible:          true,
		SettingKey:            "registration_fee",
		TargetTable:           "settings",
	},
	ActionTogglePayments: {
		ActionID:              ActionTogglePayments,
		Tier:                  Tier2,
		Label:                 "Enable/disable payments",
		Description:           "Turn payment collection on or off.",
		WarningMessage:        "Students cannot complete registration while payments are off.",
		RequiresJustification: true,
		IsReversible:          true,
		SettingKey:            "payments_enabled",
		TargetTable:           "settings",
	},
	ActionFreezeSystem: {
		ActionID:              ActionFreezeSystem,
		Tier:                  Tier3,
		Label:                 "Freeze system",
		Description:           "Freeze the whole portal. All student-facing operations stop.",
		WarningMessage:        "This affects every active user immediately when it executes.",
		RequiresJustification: true,
		RequiresReauth:        true,
		DelayMinutes:          5,
		IsReversible:          true,
		SettingKey:            "system_frozen",
		TargetTable:           "settings",
	},
	ActionMaintenanceMode: {
		ActionID:              ActionMaintenanceMode,
		Tier:                  Tier3,
		Label:                 "Maintenance mode",
		Description:           "Put the portal in maintenance mode.",
		WarningMessage:        "Students will see the maintenance page until this is reverted.",
		RequiresJustification: true,
		RequiresReauth:        true,
		DelayMinutes:          5,
		IsReversible:          true,
		SettingKey:            "maintenance_mode",
		TargetTable:           "settings",
	},
	ActionBanUser: {
		ActionID:              ActionBanUser,
		Tier:                  Tier3,
		Label:                 "Ban user",
		Description:           "Block a user account from the portal.",
		WarningMessage:        "The user loses access as soon as the action executes.",
		RequiresJustification: true,
		RequiresReauth:        true,
		DelayMinutes:          5,
		IsReversible:          true,
		TargetTable:           "users",
	},
}

// Lookup resolve o descriptor de uma ação. Unknown ids fail closed:
// the caller must reject the request instead of assuming tier1.
func Lookup(actionID string) (ActionDescriptor, bool) {
	d, ok := registry[actionID]
	return d, ok
}

// All returns every registered descriptor, for listing in the admin panel.
func All() []ActionDescriptor {
	out := make([]ActionDescriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	return out
}
