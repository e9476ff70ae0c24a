package validation

import (
	"errors"
	"math"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/shoppingmall/internal/constants"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

var (
	initOnce sync.Once
	initErr  error
	uni      *ut.UniversalTranslator

	mobilePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

type customRule struct {
	tag string
	fn  validator.Func
	zh  string
	en  string
}

var customRules = []customRule{
	{tag: "mobile", fn: validateMobile, zh: "{0}必须是有效的手机号", en: "{0} must be a valid mobile number"},
	{tag: "star", fn: validateStar, zh: "{0}必须在1到5之间且以0.5为步长", en: "{0} must be between 1 and 5 in steps of 0.5"},
	{tag: "sex", fn: validateSex, zh: "{0}只能是m或f", en: "{0} must be m or f"},
}

// Init 在 gin 默认校验器上注册 json 字段名、自定义规则与中英文翻译
func Init() error {
	initOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			initErr = errors.New("gin validator engine is not go-playground validator")
			return
		}
		initErr = Register(v)
	})
	return initErr
}

// Register 在给定校验器上注册规则与翻译
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	zhT := zh.New()
	enT := en.New()
	uni = ut.New(zhT, zhT, enT)

	zhTrans, _ := uni.GetTranslator("zh")
	enTrans, _ := uni.GetTranslator("en")
	if err := zh_translations.RegisterDefaultTranslations(v, zhTrans); err != nil {
		return err
	}
	if err := en_translations.RegisterDefaultTranslations(v, enTrans); err != nil {
		return err
	}

	for _, rule := range customRules {
		if err := v.RegisterValidation(rule.tag, rule.fn); err != nil {
			return err
		}
		if err := registerTranslation(v, zhTrans, rule.tag, rule.zh); err != nil {
			return err
		}
		if err := registerTranslation(v, enTrans, rule.tag, rule.en); err != nil {
			return err
		}
	}
	return nil
}

func registerTranslation(v *validator.Validate, trans ut.Translator, tag, text string) error {
	return v.RegisterTranslation(tag, trans, func(t ut.Translator) error {
		return t.Add(tag, text, true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		msg, err := t.T(tag, fe.Field())
		if err != nil {
			return fe.Error()
		}
		return msg
	})
}

// Translate 将校验错误翻译为指定语言的首条提示，非校验错误返回空串
func Translate(err error, locale string) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return ""
	}
	trans := translatorFor(locale)
	if trans == nil {
		return errs[0].Error()
	}
	return errs[0].Translate(trans)
}

func translatorFor(locale string) ut.Translator {
	if uni == nil {
		return nil
	}
	key := "zh"
	if locale == constants.LocaleEnUS || strings.HasPrefix(strings.ToLower(locale), "en") {
		key = "en"
	}
	trans, _ := uni.GetTranslator(key)
	return trans
}

func validateMobile(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return true
	}
	return mobilePattern.MatchString(value)
}

func validateStar(fl validator.FieldLevel) bool {
	return IsValidStar(fl.Field().Float())
}

func validateSex(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || value == constants.UserSexMale || value == constants.UserSexFemale
}

// IsValidStar 判断评分是否在 [1,5] 且为 0.5 的整数倍
func IsValidStar(star float64) bool {
	if star < 1 || star > 5 {
		return false
	}
	doubled := star * 2
	return math.Abs(doubled-math.Round(doubled)) < 1e-9
}
