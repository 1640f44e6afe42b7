package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ChangeEmailMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

// HandoverNoticeMailData 是雇员离职交接时发送给接收人的通知邮件数据
type HandoverNoticeMailData struct {
	FullName     string `json:"fullName"`     // 接收人姓名
	EmployeeName string `json:"employeeName"` // 离职雇员姓名
	AssetCount   int    `json:"assetCount"`   // 待归还资产数量
	HandoverDate string `json:"handoverDate"`
}
