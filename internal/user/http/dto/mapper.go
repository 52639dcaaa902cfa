// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	"github.com/allisson/litenotes/internal/user/domain"
	"github.com/allisson/litenotes/internal/user/usecase"
)

// ToRegisterInput converts a RegisterRequest DTO to the use case input.
func ToRegisterInput(req RegisterRequest) usecase.RegisterInput {
	return usecase.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
}

// ToLoginInput converts a LoginRequest DTO to the use case input.
func ToLoginInput(req LoginRequest) usecase.LoginInput {
	return usecase.LoginInput{
		Username: req.Username,
		Password: req.Password,
	}
}

// ToUserResponse converts a domain User to its external representation.
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// ToLoginResponse converts a login output to its external representation.
func ToLoginResponse(output *usecase.LoginOutput) LoginResponse {
	return LoginResponse{
		Token:     output.Token,
		ExpiresAt: output.ExpiresAt,
		User:      ToUserResponse(output.User),
	}
}
