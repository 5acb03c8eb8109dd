package util

// ErrorKind 错误大类，客户端按 kind 分支处理
type ErrorKind string

const (
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindForbidden    ErrorKind = "FORBIDDEN"
	KindInvalidInput ErrorKind = "INVALID_INPUT"
	KindConflict     ErrorKind = "CONFLICT"
	KindStateError   ErrorKind = "STATE_ERROR"
	KindTimeout      ErrorKind = "TIMEOUT"
)

// AppError 带类型的业务错误，Code 为细分错误码
type AppError struct {
	Kind    ErrorKind `json:"kind"`
	Code    string    `json:"code"`
	Message string    `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(kind ErrorKind, code, message string) *AppError {
	return &AppError{Kind: kind, Code: code, Message: message}
}

var (
	// 用户/好友
	ErrUserNotFound      = NewAppError(KindNotFound, "UserNotFound", "用户不存在")
	ErrEmailRegistered   = NewAppError(KindConflict, "EmailRegistered", "该邮箱已被注册")
	ErrSelfReference     = NewAppError(KindInvalidInput, "SelfReference", "不能添加自己为好友")
	ErrDuplicateRequest  = NewAppError(KindConflict, "DuplicateRequest", "已发送过好友申请")
	ErrAlreadyFriends    = NewAppError(KindConflict, "AlreadyFriends", "已经是好友了")
	ErrRequestNotFound   = NewAppError(KindStateError, "RequestNotFound", "好友申请不存在或已处理")
	ErrNotFriends        = NewAppError(KindNotFound, "NotFriends", "好友关系不存在")
	ErrInvalidCredential = NewAppError(KindInvalidInput, "InvalidCredentials", "invalid credentials")

	// 饭团
	ErrSquadNotFound      = NewAppError(KindNotFound, "SquadNotFound", "饭团不存在")
	ErrSquadNameTaken     = NewAppError(KindConflict, "SquadNameTaken", "饭团名称已被使用")
	ErrAlreadyMember      = NewAppError(KindConflict, "AlreadyMember", "该用户已在饭团中")
	ErrNotSquadMember     = NewAppError(KindForbidden, "NotSquadMember", "仅饭团成员可以操作")
	ErrNotSquadCreator    = NewAppError(KindForbidden, "NotSquadCreator", "仅饭团创建者可以操作")
	ErrCreatorMustTransfer = NewAppError(KindStateError, "CreatorMustTransfer", "创建者需先转让或解散饭团")

	// 饭局
	ErrMealNotFound       = NewAppError(KindNotFound, "MealNotFound", "饭局不存在")
	ErrNotMealHost        = NewAppError(KindForbidden, "NotMealHost", "仅发起人可以操作")
	ErrInvalidTimeSlot    = NewAppError(KindInvalidInput, "InvalidTimeSlot", "无效的用餐时段")
	ErrInvalidDate        = NewAppError(KindInvalidInput, "InvalidDate", "无效的日期格式")
	ErrSchedulingConflict = NewAppError(KindConflict, "SchedulingConflict", "同日同类型饭局时间冲突")
	ErrAlreadyParticipant = NewAppError(KindConflict, "AlreadyParticipant", "已在饭局名单中")
	ErrNotParticipant     = NewAppError(KindNotFound, "NotParticipant", "不在饭局名单中")
	ErrMealNotOpen        = NewAppError(KindStateError, "NotOpen", "该饭局不开放加入")
	ErrMealAlreadyStarted = NewAppError(KindStateError, "AlreadyStarted", "饭局已经开始")
	ErrCannotJoinOwnMeal  = NewAppError(KindInvalidInput, "CannotJoinOwnMeal", "不能加入自己发起的饭局")
	ErrInvalidTransition  = NewAppError(KindStateError, "InvalidStatusTransition", "状态不允许此变更")
	ErrSquadNotInvited    = NewAppError(KindNotFound, "SquadNotInvited", "该饭团未被邀请")

	// Ping
	ErrPingNotFound     = NewAppError(KindNotFound, "PingNotFound", "该召唤不存在")
	ErrPingExpired      = NewAppError(KindStateError, "Expired", "该召唤已失效")
	ErrAlreadyResponded = NewAppError(KindConflict, "AlreadyResponded", "已响应过该召唤")
	ErrNoPingTargets    = NewAppError(KindStateError, "NoTargets", "至少需要一个接收人或饭团")
	ErrNotPingSender    = NewAppError(KindForbidden, "NotPingSender", "仅发起人可以取消")
	ErrNotPingRecipient = NewAppError(KindForbidden, "NotPingRecipient", "不在该召唤的接收范围内")

	// 持久层
	ErrTimeout = NewAppError(KindTimeout, "Timeout", "操作超时，请重试")
)
