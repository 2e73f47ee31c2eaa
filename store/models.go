package store

import "time"

// TenantModel mirrors domains/tenant.Tenant.
type TenantModel struct {
	ID              string `gorm:"primaryKey"`
	Name            string
	Email           string `gorm:"uniqueIndex"`
	Phone           string
	PlanID          string `gorm:"index"`
	PlanStart       *time.Time
	PlanEnd         *time.Time
	ModuleAPI       bool
	ModuleScheduler bool
	ModuleChatbot   bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (TenantModel) TableName() string { return "tenants" }

// PlanModel mirrors domains/plan.Plan.
type PlanModel struct {
	ID                   string `gorm:"primaryKey"`
	Name                 string
	MaxInstances         int
	MaxChatbots          int
	MonthlyConversations int
	DurationKind         string
	DurationValue        int
	Periodicity          string
}

func (PlanModel) TableName() string { return "plans" }

// InstanceModel mirrors domains/instance.Instance.
type InstanceModel struct {
	ID             string `gorm:"primaryKey"`
	OwnerTenantID  string `gorm:"index"`
	Name           string
	SessionID      string `gorm:"uniqueIndex"`
	Token          string `gorm:"index"`
	PhoneConnected string
	Status         string
	BatteryPercent int
	Platform       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (InstanceModel) TableName() string { return "instances" }

// WebhookConfigModel mirrors domains/webhook.Config.
type WebhookConfigModel struct {
	ID           string `gorm:"primaryKey"`
	InstanceID   string `gorm:"uniqueIndex"`
	URL          string
	Secret       string
	SendMessages bool
	SendAck      bool
	SendPresence bool
}

func (WebhookConfigModel) TableName() string { return "webhook_configs" }

// MessageModel mirrors domains/message.Message.
type MessageModel struct {
	ID         string `gorm:"primaryKey"`
	InstanceID string `gorm:"index:idx_messages_conversation"`
	RemoteJID  string `gorm:"index:idx_messages_conversation"`
	FromMe     bool
	PushName   string
	Type       string
	Content    string
	MediaURL   string
	Wamid      string `gorm:"index"`
	Timestamp  time.Time
}

func (MessageModel) TableName() string { return "messages" }

// ChatbotConfigModel mirrors domains/chatbotconfig.Config. Transfers
// and Media are stored as JSON blobs rather than child tables, since
// both are small and always read/written as a whole with their parent.
type ChatbotConfigModel struct {
	ID                  string `gorm:"primaryKey"`
	OwnerTenantID       string `gorm:"index"`
	InstanceID          string `gorm:"uniqueIndex"`
	Active              bool
	CompanyName         string
	Tone                string
	Segment             string
	BusinessSummary     string
	BusinessHours       string
	Context             string
	Skills              string
	Extras              string
	InternalNotes       string
	TriggerOnGroups     bool
	SimulateTyping      bool
	TypingTimeMinMs     int
	TypingTimeMaxMs     int
	UseHistory          bool
	HistoryLimit        int
	AIProvider          string
	AIModel             string
	// AIAPIKeyEnc holds the tenant's provider API key encrypted at rest
	// via pkg/crypto; never populate AIAPIKey from this column directly.
	AIAPIKeyEnc         string
	TransfersJSON       string
	MediaJSON           string
	ConversationsCount  int
	LastResetDate       time.Time
	CurrentTokensUsed   int
	TokenLimit          int
	TokenUsageKind      string
	Periodicity         string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (ChatbotConfigModel) TableName() string { return "chatbot_configs" }

// ChatbotContactModel mirrors domains/chatbotcontact.Contact.
type ChatbotContactModel struct {
	ID               string `gorm:"primaryKey"`
	ChatbotConfigID  string `gorm:"uniqueIndex:idx_contact_conversation"`
	RemoteJID        string `gorm:"uniqueIndex:idx_contact_conversation"`
	PushName         string
	Notes            string
	IsBlocked        bool
	LastAskedName    bool
	FirstInteraction time.Time
	LastInteraction  time.Time
}

func (ChatbotContactModel) TableName() string { return "chatbot_contacts" }

// CampaignModel mirrors domains/campaign.Campaign. RawNumbers, Groups
// and Templates are stored as JSON, consistent with ChatbotConfigModel.
type CampaignModel struct {
	ID                   string `gorm:"primaryKey"`
	OwnerTenantID        string `gorm:"index"`
	InstanceID           string `gorm:"index"`
	Name                 string
	StartAt              time.Time
	MinDelaySeconds      int
	MaxDelaySeconds      int
	MessagesPerRecipient int
	UseNamePlaceholder   bool
	RawNumbersJSON       string
	GroupsJSON           string
	TemplatesJSON        string
	Status               string
	Planned              int
	Sent                 int
	Failed               int
	Delivered            int
	Read                 int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (CampaignModel) TableName() string { return "campaigns" }

// RecipientModel mirrors domains/campaign.Recipient.
type RecipientModel struct {
	ID          string `gorm:"primaryKey"`
	CampaignID  string `gorm:"uniqueIndex:idx_recipient_jid"`
	JID         string `gorm:"uniqueIndex:idx_recipient_jid"`
	DisplayName string
}

func (RecipientModel) TableName() string { return "campaign_recipients" }

// QueueItemModel mirrors domains/campaign.QueueItem.
type QueueItemModel struct {
	ID              string `gorm:"primaryKey"`
	CampaignID      string `gorm:"index"`
	RecipientID     string `gorm:"uniqueIndex:idx_queueitem_step"`
	Step            int    `gorm:"uniqueIndex:idx_queueitem_step"`
	ScheduledAt     time.Time `gorm:"index"`
	Status          string    `gorm:"index"`
	RenderedBody    string
	TemplateID      string
	MediaID         string
	ResponsePayload string
	Wamid           string `gorm:"index"`
	Attempts        int
	Error           string
}

func (QueueItemModel) TableName() string { return "campaign_queue_items" }

// InstanceDispatchStateModel mirrors domains/campaign.InstanceDispatchState.
type InstanceDispatchStateModel struct {
	InstanceID      string `gorm:"primaryKey"`
	NextAvailableAt time.Time
}

func (InstanceDispatchStateModel) TableName() string { return "instance_dispatch_states" }

// ErrorLogEntryModel mirrors domains/errorlog.Entry.
type ErrorLogEntryModel struct {
	ID         string `gorm:"primaryKey"`
	Component  string `gorm:"index"`
	InstanceID string `gorm:"index"`
	Message    string
	Payload    string
	Error      string
	CreatedAt  time.Time `gorm:"index"`
}

func (ErrorLogEntryModel) TableName() string { return "error_log_entries" }
