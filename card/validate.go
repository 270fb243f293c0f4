package card

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrInvalid 表示配置未通过存在性检查。
var ErrInvalid = errors.New("card: invalid configuration")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// Validate 只做存在性与枚举检查，不校验姓名、年级等的业务含义。
func Validate(s Spec) error {
	if err := validatorInstance().Struct(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// ValidateItem 检查条目 id 与数量，并校验其快照。
func ValidateItem(it BatchItem) error {
	if err := validatorInstance().Struct(it); err != nil {
		return fmt.Errorf("%w: 条目 %q: %v", ErrInvalid, it.Name, err)
	}
	return Validate(it.Snapshot)
}

// ValidateConfig 校验当前 Spec 与全部条目。
func ValidateConfig(c Config) error {
	if err := Validate(c.Spec); err != nil {
		return err
	}
	for _, it := range c.Subjects {
		if err := ValidateItem(it); err != nil {
			return err
		}
	}
	return nil
}
