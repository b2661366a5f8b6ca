package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/d60-Lab/onyx/internal/model"
)

// RegisterValidators 在 gin 的校验引擎上注册自定义规则
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("swipedir", validSwipeDirection)
}

func validSwipeDirection(fl validator.FieldLevel) bool {
	_, err := model.ParseSwipeDirection(fl.Field().String())
	return err == nil
}
