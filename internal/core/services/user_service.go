package services

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/domain"
	"github.com/AchilleasB/rescue-link/emergency-service/internal/core/ports"
)

var userMessages = map[string]string{
	"username": "Username is required",
	"password": "Password is required",
}

type UserService struct {
	userRepo ports.UserRepository
	validate *validator.Validate
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(userRepo ports.UserRepository) *UserService {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})

	return &UserService{
		userRepo: userRepo,
		validate: v,
	}
}

func (s *UserService) RegisterUser(ctx context.Context, user domain.NewUser) (*domain.User, error) {
	user.Username = strings.TrimSpace(user.Username)

	if err := s.validate.Struct(user); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		verr := &domain.ValidationError{}
		for _, fe := range fieldErrs {
			verr.Add(fe.Field(), userMessages[fe.Field()])
		}
		return nil, verr
	}

	return s.userRepo.CreateUser(ctx, user)
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetUser(ctx, id)
}
