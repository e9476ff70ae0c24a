package constants

// 订单状态常量
const (
	OrderStatusAwaitingShipment = "awaiting_shipment"
	OrderStatusShipped          = "shipped"
	OrderStatusReceived         = "received"
	OrderStatusAfterSale        = "after_sale"
)

// 订单状态变更发起方
const (
	OrderActorUser   = "user"
	OrderActorAdmin  = "admin"
	OrderActorSystem = "system"
)

// 用户性别常量
const (
	UserSexMale   = "m"
	UserSexFemale = "f"
)

// 用户登录状态常量
const (
	UserLoginStatusOnline  = "online"
	UserLoginStatusOffline = "offline"
)

// 登录日志状态常量
const (
	LoginLogStatusSuccess = "success"
	LoginLogStatusFailed  = "failed"
)

// 登录日志失败原因常量
const (
	LoginLogFailReasonBadRequest         = "bad_request"
	LoginLogFailReasonCaptchaRequired    = "captcha_required"
	LoginLogFailReasonCaptchaInvalid     = "captcha_invalid"
	LoginLogFailReasonUserNotFound       = "user_not_found"
	LoginLogFailReasonInvalidCredentials = "invalid_credentials"
	LoginLogFailReasonInternalError      = "internal_error"
)

// 登录日志来源常量
const (
	LoginLogSourceWeb = "web"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 上传场景常量
const (
	UploadScenePost    = "post"
	UploadSceneProduct = "product"
	UploadSceneAd      = "ad"
	UploadSceneIcon    = "icon"
)

// 存储提供方常量
const (
	StorageProviderLocal = "local"
	StorageProviderS3    = "s3"
)

// 帖子图片数量限制
const (
	PostImageMinCount = 1
	PostImageMaxCount = 6
)

// 封面图序号
const SurfaceOrderNumber = 1

// 队列常量
const (
	QueueDefault           = "default"
	QueueCritical          = "critical"
	TaskOrderAutoReceive   = "order:auto_receive"
	TaskStorageCleanup     = "storage:cleanup"
	OrderAutoReceiveBatch  = 200
	StorageCleanupMaxFiles = 500
)

// 缓存默认配置常量
const (
	RedisPrefixDefault     = "mall"
	CacheKeyMallListing    = "mall:listing"
	CacheKeyRecommendFeed  = "community:recommend"
	CacheKeyCategoryPrefix = "mall:category:"
)

// 站点语言常量
const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"
)

// SupportedLocales 支持的站点语言顺序（首项为默认语言）
var SupportedLocales = []string{LocaleZhCN, LocaleEnUS}
