package domain

const (
	MailTypeCreateUser        = "create_user"
	MailTypeTransferRequested = "transfer_requested"
	MailTypeTransferResolved  = "transfer_resolved"
)

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

type TransferRequestedMailData struct {
	TransferID  int64  `json:"transferId"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	FromStore   string `json:"fromStore"`
	ToStore     string `json:"toStore"`
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes"`
	RequestedBy string `json:"requestedBy"`
}

type TransferResolvedMailData struct {
	TransferID int64          `json:"transferId"`
	Status     TransferStatus `json:"status"`
	Quantity   int            `json:"quantity"`
	FromStore  string         `json:"fromStore"`
	ToStore    string         `json:"toStore"`
	ResolvedBy string         `json:"resolvedBy"`
}
