package account

import (
	"errors"
	"log"

	"github.com/rtodev/sim-admin/internal/response"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(c *fiber.Ctx) error {
	var body RegisterInput
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	result, err := h.svc.Register(body)
	if err != nil {
		return mapError(c, err)
	}

	message := "Registration successful. A verification code has been sent to your email."
	if !result.EmailSent {
		message = "Registration successful, but the verification email could not be sent. Request a new code via resend-token."
	}

	return response.Created(c, fiber.Map{"account_id": result.AccountID}, message)
}

func (h *Handler) Verify(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
		Token string `json:"token"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if err := h.svc.Verify(body.Email, body.Token); err != nil {
		switch {
		case errors.Is(err, ErrTokenNotFound):
			return response.TokenInvalid(c, "Verification code is invalid")
		case errors.Is(err, ErrTokenExpired):
			return response.TokenExpired(c, fiber.StatusForbidden, "Verification code has expired. Request a new one.")
		case errors.Is(err, ErrNotFound):
			return response.BadRequest(c, "No account exists for this email", nil)
		}
		return mapError(c, err)
	}

	return response.Success(c, nil, "Account verified. You can now log in.")
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	result, err := h.svc.Login(body.Email, body.Password)
	if err != nil {
		var needVerify *VerificationRequiredError
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid email or password")
		case errors.As(err, &needVerify):
			return response.Forbidden(c, "NEED_VERIFICATION", "Email requires verification", fiber.Map{
				"need_verification": true,
				"account_id":        needVerify.AccountID,
			})
		case errors.Is(err, ErrVerificationMissing):
			return response.Forbidden(c, "VERIFICATION_TOKEN_MISSING", "Account is not verified and no verification code is on file. Request a new one.", nil)
		case errors.Is(err, ErrVerificationExpired):
			return response.Forbidden(c, "VERIFICATION_TOKEN_EXPIRED", "Verification code has expired. Request a new one.", nil)
		}
		return mapError(c, err)
	}

	return response.Success(c, fiber.Map{
		"token":   result.Token,
		"account": result.Account,
	}, "Login successful")
}

func (h *Handler) Logout(c *fiber.Ctx) error {
	token, _ := c.Locals("session_token").(string)
	if token == "" {
		return response.Unauthorized(c, "Missing session token")
	}

	if err := h.svc.Logout(token); err != nil {
		return mapError(c, err)
	}

	return response.Success(c, nil, "Logout successful")
}

func (h *Handler) ResendToken(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if err := h.svc.ResendToken(body.Email); err != nil {
		return mapError(c, err)
	}

	return response.Success(c, nil, "If the account exists and is unverified, a new code has been sent")
}

func (h *Handler) ForgotPassword(c *fiber.Ctx) error {
	var body struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if err := h.svc.ForgotPassword(body.Email); err != nil {
		return mapError(c, err)
	}

	return response.Success(c, nil, "If the account exists, reset instructions have been sent")
}

func (h *Handler) ResetPassword(c *fiber.Ctx) error {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body", err.Error())
	}

	if err := h.svc.ResetPassword(body.Token, body.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrTokenNotFound):
			return response.TokenInvalid(c, "Reset code is invalid")
		case errors.Is(err, ErrTokenExpired):
			return response.TokenExpired(c, fiber.StatusBadRequest, "Reset code has expired. Request a new one.")
		}
		return mapError(c, err)
	}

	return response.Success(c, nil, "Password changed. Log in with your new password.")
}

// mapError translates taxonomy errors shared by every handler; anything
// unrecognized is logged server-side and surfaced as a generic 500.
func mapError(c *fiber.Ctx, err error) error {
	var validation *ValidationError
	var conflict *ConflictError

	switch {
	case errors.As(err, &validation):
		return response.ValidationError(c, validation.Fields)
	case errors.As(err, &conflict):
		return response.Conflict(c, "Already registered", fiber.Map{"fields": conflict.Fields})
	}

	log.Printf("account: %s %s failed: %v", c.Method(), c.Path(), err)
	return response.InternalError(c, "Something went wrong")
}
