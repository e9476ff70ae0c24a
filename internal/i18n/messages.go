package i18n

var messages = map[string]map[string]string{
	LocaleZH: {
		// 通用
		"error.bad_request":            "请求参数错误",
		"error.validation_field":       "字段 %s 不符合规则 %s",
		"error.unauthorized":           "未登录或登录已失效",
		"error.forbidden":              "无权执行该操作",
		"error.not_found":              "资源不存在",
		"error.internal":               "服务器内部错误",
		"error.query_failed":           "查询失败",
		"error.save_failed":            "保存失败",
		"error.delete_failed":          "删除失败",
		"error.upload_failed":          "上传失败",
		"error.id_invalid":             "ID 不合法",
		"error.page_invalid":           "分页参数不合法",
		"error.rate_limited":           "请求过于频繁，请稍后再试",
		"error.login_too_many":         "登录尝试过于频繁，请稍后再试",
		"error.user_id_invalid":        "用户 ID 不合法",
		"error.rate_limit_unavailable": "限流服务不可用",

		// 认证
		"error.auth_header_missing":  "缺少 Authorization 请求头",
		"error.auth_header_invalid":  "Authorization 请求头格式错误",
		"error.token_invalid":        "登录凭证无效或已过期",
		"error.token_revoked":        "登录凭证已失效，请重新登录",
		"error.jwt_secret_missing":   "JWT 密钥未配置",
		"error.user_id_type_invalid": "用户 ID 类型错误",
		"error.login_failed":         "登录失败",
		"error.register_failed":      "注册失败",
		"error.logout_failed":        "退出登录失败",
		"error.user_not_found":       "用户不存在",
		"error.password_mismatch":    "密码错误",
		"error.username_exists":      "用户名已存在",
		"error.username_invalid":     "用户名不能为空且不超过 20 个字符",

		// 密码策略
		"error.password_max_length":      "密码长度不能超过 %d 字节",
		"error.password_min_length":      "密码长度不能少于 %d 位",
		"error.password_require_upper":   "密码必须包含大写字母",
		"error.password_require_lower":   "密码必须包含小写字母",
		"error.password_require_number":  "密码必须包含数字",
		"error.password_require_special": "密码必须包含特殊字符",

		// 验证码
		"error.captcha_required":        "请输入验证码",
		"error.captcha_invalid":         "验证码错误或已过期",
		"error.captcha_config_invalid":  "验证码配置无效",
		"error.captcha_generate_failed": "验证码生成失败",

		// 用户与关注
		"error.self_follow":       "不能关注自己",
		"error.already_following": "已经关注该用户",
		"error.follow_not_found":  "尚未关注该用户",
		"error.profile_empty":     "没有需要更新的资料",

		// 上传
		"error.upload_too_large":         "文件大小不能超过 %dMB",
		"error.upload_extension_invalid": "不支持的文件扩展名 %s",
		"error.upload_type_invalid":      "不支持的文件类型 %s",
		"error.upload_image_invalid":     "图片文件已损坏或无法识别",
		"error.upload_width_exceeded":    "图片宽度不能超过 %d 像素",
		"error.upload_height_exceeded":   "图片高度不能超过 %d 像素",
		"error.empty_upload":             "上传内容为空",

		// 商城
		"error.category_not_found":   "分类不存在",
		"error.category_exists":      "分类已存在",
		"error.category_in_use":      "分类下仍有商品，无法删除",
		"error.product_not_found":    "商品不存在",
		"error.product_inactive":     "商品已下架",
		"error.surface_not_found":    "封面图片不存在",
		"error.variant_not_found":    "商品规格不存在",
		"error.variant_conflict":     "规格名称或排序与已有规格冲突",
		"error.image_not_found":      "商品图片不存在",
		"error.image_order_conflict": "图片序号已被占用",
		"error.surface_required":     "商品需要先上传 1 号封面图才能上架",
		"error.ad_not_found":         "广告不存在",
		"error.favorite_exists":      "已收藏该商品",
		"error.favorite_not_found":   "未收藏该商品",
		"error.cart_item_not_found":  "购物车中没有该商品",

		// 地址
		"error.address_not_found": "地址不存在",
		"error.address_in_use":    "地址已被订单引用，无法删除",

		// 订单与评价
		"error.order_not_found":      "订单不存在",
		"error.order_duplicate":      "订单重复提交",
		"error.order_status_invalid": "订单状态不允许该变更",
		"error.comment_exists":       "该订单已评价",
		"error.comment_not_found":    "评价不存在",
		"error.star_invalid":         "评分必须在 1 到 5 之间且以 0.5 为步长",

		// 社区
		"error.post_not_found":      "帖子不存在",
		"error.post_image_count":    "帖子图片数量必须在 1 到 6 张之间",
		"error.post_already_liked":  "已经点赞过该帖子",
		"error.post_like_not_found": "尚未点赞该帖子",

		// 权限
		"error.role_invalid":        "角色不合法",
		"error.role_not_found":      "角色不存在",
		"error.authz_update_failed": "权限更新失败",
	},
	LocaleEN: {
		"error.bad_request":            "Invalid request parameters",
		"error.validation_field":       "Field %s failed rule %s",
		"error.unauthorized":           "Not signed in or session expired",
		"error.forbidden":              "You are not allowed to perform this action",
		"error.not_found":              "Resource not found",
		"error.internal":               "Internal server error",
		"error.query_failed":           "Query failed",
		"error.save_failed":            "Save failed",
		"error.delete_failed":          "Delete failed",
		"error.upload_failed":          "Upload failed",
		"error.id_invalid":             "Invalid ID",
		"error.page_invalid":           "Invalid pagination parameters",
		"error.rate_limited":           "Too many requests, please try again later",
		"error.login_too_many":         "Too many login attempts, please try again later",
		"error.user_id_invalid":        "Invalid user ID",
		"error.rate_limit_unavailable": "Rate limiter unavailable",

		"error.auth_header_missing":  "Missing Authorization header",
		"error.auth_header_invalid":  "Malformed Authorization header",
		"error.token_invalid":        "Token is invalid or expired",
		"error.token_revoked":        "Token has been revoked, please sign in again",
		"error.jwt_secret_missing":   "JWT secret is not configured",
		"error.user_id_type_invalid": "Unexpected user ID type",
		"error.login_failed":         "Sign in failed",
		"error.register_failed":      "Registration failed",
		"error.logout_failed":        "Sign out failed",
		"error.user_not_found":       "User not found",
		"error.password_mismatch":    "Incorrect password",
		"error.username_exists":      "Username already exists",
		"error.username_invalid":     "Username is required and must be at most 20 characters",

		"error.password_max_length":      "Password must be at most %d bytes",
		"error.password_min_length":      "Password must be at least %d characters",
		"error.password_require_upper":   "Password must contain an uppercase letter",
		"error.password_require_lower":   "Password must contain a lowercase letter",
		"error.password_require_number":  "Password must contain a digit",
		"error.password_require_special": "Password must contain a special character",

		"error.captcha_required":        "Captcha is required",
		"error.captcha_invalid":         "Captcha is wrong or expired",
		"error.captcha_config_invalid":  "Captcha is misconfigured",
		"error.captcha_generate_failed": "Failed to generate captcha",

		"error.self_follow":       "You cannot follow yourself",
		"error.already_following": "You already follow this user",
		"error.follow_not_found":  "You do not follow this user",
		"error.profile_empty":     "Nothing to update",

		"error.upload_too_large":         "File must not exceed %dMB",
		"error.upload_extension_invalid": "Unsupported file extension %s",
		"error.upload_type_invalid":      "Unsupported file type %s",
		"error.upload_image_invalid":     "Image is corrupted or unrecognized",
		"error.upload_width_exceeded":    "Image width must not exceed %d pixels",
		"error.upload_height_exceeded":   "Image height must not exceed %d pixels",
		"error.empty_upload":             "Upload is empty",

		"error.category_not_found":   "Category not found",
		"error.category_exists":      "Category already exists",
		"error.category_in_use":      "Category still has products",
		"error.product_not_found":    "Product not found",
		"error.product_inactive":     "Product is not available",
		"error.surface_not_found":    "Cover image not found",
		"error.variant_not_found":    "Variant not found",
		"error.variant_conflict":     "Variant name or order conflicts with an existing variant",
		"error.image_not_found":      "Product image not found",
		"error.image_order_conflict": "Image order number is already taken",
		"error.surface_required":     "Upload cover image #1 before activating the product",
		"error.ad_not_found":         "Advertisement not found",
		"error.favorite_exists":      "Product is already in favorites",
		"error.favorite_not_found":   "Product is not in favorites",
		"error.cart_item_not_found":  "Item is not in the cart",

		"error.address_not_found": "Address not found",
		"error.address_in_use":    "Address is referenced by orders",

		"error.order_not_found":      "Order not found",
		"error.order_duplicate":      "Duplicate order",
		"error.order_status_invalid": "Order status change is not allowed",
		"error.comment_exists":       "Order has already been reviewed",
		"error.comment_not_found":    "Comment not found",
		"error.star_invalid":         "Star must be between 1 and 5 in steps of 0.5",

		"error.post_not_found":      "Post not found",
		"error.post_image_count":    "A post needs between 1 and 6 images",
		"error.post_already_liked":  "You already liked this post",
		"error.post_like_not_found": "You have not liked this post",

		"error.role_invalid":        "Invalid role",
		"error.role_not_found":      "Role not found",
		"error.authz_update_failed": "Failed to update permissions",
	},
}
