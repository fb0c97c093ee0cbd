package types

type RefreshSession struct {
	UserId      string `json:"user_id"`
	JTI         string `json:"jti"`
	Fingerprint string `json:"fingerprint"`
	IssueAt     int64  `json:"issue_at"`
	ExpireAt    int64  `json:"expire_at"`
	Status      string `json:"status"`
}
