package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/nexaread/backend/internal/auth"
	"github.com/nexaread/backend/internal/core"
	"github.com/nexaread/backend/internal/validator"
)

type envelope map[string]any

const (
	refreshTokenCookie = "refreshToken"
	dateOfBirthLayout  = "2006-01-02"
)

func (app *application) registerUserHandler(w http.ResponseWriter, r *http.Request) {
	type registerUserPayload struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		DOB       string `json:"dob"`
		Password  string `json:"password"`
	}

	var registerUserRequest registerUserPayload

	if err := app.readJSON(w, r, &registerUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	user := &auth.User{
		Email:             strings.TrimSpace(registerUserRequest.Email),
		Phone:             strings.TrimSpace(registerUserRequest.Phone),
		FirstName:         strings.TrimSpace(registerUserRequest.FirstName),
		LastName:          strings.TrimSpace(registerUserRequest.LastName),
		PlaintextPassword: registerUserRequest.Password,
	}

	v := validator.New()
	checkEmail(v, user.Email)
	v.CheckNotBlank(user.Phone, "phone", "must be provided")
	v.CheckPhone(user.Phone, "must be a valid phone number")
	v.CheckNotBlank(user.FirstName, "firstName", "must be provided")
	v.CheckNotBlank(user.PlaintextPassword, "password", "must be provided")
	v.Check(len(user.PlaintextPassword) >= 8, "password", "must be at least 8 characters long")

	dob, err := time.Parse(dateOfBirthLayout, registerUserRequest.DOB)
	if err != nil {
		v.AddError("dob", "must be a valid date in the form YYYY-MM-DD")
	}
	user.DateOfBirth = dob

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	if err := user.SetPassword(registerUserRequest.Password); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.CreateNewUser(r.Context(), user); err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateEmail):
			app.conflictResponse(w, r, &AppError{ErrorMessage: "Email address already exists"})
			return
		case errors.Is(err, core.ErrDuplicatePhone):
			app.conflictResponse(w, r, &AppError{ErrorMessage: "Phone number already exists"})
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	// Signup succeeds once the record is persisted. Email delivery is
	// fire-and-forget, a failure is logged, never surfaced.
	app.sendVerificationEmail(user)

	if err := app.writeJSON(w, http.StatusCreated, envelope{"email": user.Email}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) verifyEmailHandler(w http.ResponseWriter, r *http.Request) {
	token := app.readString(r.URL.Query(), "token", "")
	if token == "" {
		app.invalidAuthenticationTokenResponse(w, r, nil)
		return
	}

	userID, err := app.auth.VerifyVerificationToken(token)
	if err != nil {
		app.invalidAuthenticationTokenResponse(w, r, err)
		return
	}

	if err := app.core.MarkUserVerified(r.Context(), userID); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "Email verification success"}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) resendVerificationHandler(w http.ResponseWriter, r *http.Request) {
	type resendPayload struct {
		Email string `json:"email"`
	}

	var resendRequest resendPayload
	if err := app.readJSON(w, r, &resendRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	checkEmail(v, resendRequest.Email)
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	user, err := app.core.GetUserByEmail(r.Context(), resendRequest.Email)
	if err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if user.IsVerified {
		app.badRequestResponse(w, r, &AppError{ErrorMessage: "Your account is already verified, please login"})
		return
	}

	app.sendVerificationEmail(user)

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "A new verification link has been sent to your email!"}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) loginHandler(w http.ResponseWriter, r *http.Request) {
	type loginUserPayload struct {
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}

	var loginUserRequest loginUserPayload

	if err := app.readJSON(w, r, &loginUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.Check(loginUserRequest.Email != "" || loginUserRequest.Phone != "", "identifier", "email or phone must be provided")
	v.CheckNotBlank(loginUserRequest.Password, "password", "must be provided")

	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	user, err := app.core.GetUserByEmailOrPhone(r.Context(), loginUserRequest.Email, loginUserRequest.Phone)
	if err != nil {
		switch {
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if !user.IsVerified {
		app.authenticationRequiredResponse(w, r, errors.New("account is not verified"))
		return
	}

	match, err := user.IsPasswordMatch(loginUserRequest.Password)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: "Invalid email or password",
		})
		return
	}

	tokenPair, err := app.auth.IssueTokenPair(user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.setRefreshTokenCookie(w, tokenPair.RefreshToken)

	if err := app.writeJSON(w, http.StatusOK, envelope{"accessToken": tokenPair.AccessToken}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

// refreshTokenHandler exchanges the refresh cookie for a fresh token pair.
// There is no server-side token store, rotation only replaces the cookie.
func (app *application) refreshTokenHandler(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		app.authenticationRequiredResponse(w, r, errors.New("refresh token is missing"))
		return
	}

	userID, err := app.auth.VerifyRefreshToken(cookie.Value)
	if err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: "Invalid token provided.",
			ErrorStack:   err,
		})
		return
	}

	tokenPair, err := app.auth.IssueTokenPair(userID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	app.setRefreshTokenCookie(w, tokenPair.RefreshToken)

	if err := app.writeJSON(w, http.StatusCreated, envelope{"accessToken": tokenPair.AccessToken}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) logoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    "",
		Path:     "/api/users",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteStrictMode,
	})

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "Logout successful."}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getUserHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"user": user}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updateUserHandler(w http.ResponseWriter, r *http.Request) {
	type updateUserPayload struct {
		Field string `json:"field"`
		Value string `json:"value"`
	}

	var updateUserRequest updateUserPayload
	if err := app.readJSON(w, r, &updateUserRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	column, ok := core.UpdatableUserColumns[updateUserRequest.Field]
	if !ok {
		app.badRequestResponse(w, r, &AppError{ErrorMessage: "This field cannot be updated"})
		return
	}

	v := validator.New()
	value, err := validateUserFieldValue(v, updateUserRequest.Field, updateUserRequest.Value)
	if err != nil || !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	updatedUser, err := app.core.UpdateUserField(r.Context(), user.ID, column, value)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrDuplicateEmail):
			app.conflictResponse(w, r, &AppError{ErrorMessage: "Email address already exists"})
			return
		case errors.Is(err, core.ErrDuplicatePhone):
			app.conflictResponse(w, r, &AppError{ErrorMessage: "Phone number already exists"})
			return
		case errors.Is(err, core.NoRecordFound):
			app.notFoundResponse(w, r)
			return
		default:
			app.internalErrorResponse(w, r, err)
			return
		}
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"user": updatedUser, "message": "Resource updated successfully."}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) getPreferencesHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	preferences, err := app.core.GetPreferences(r.Context(), user.ID)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"preferences": preferences}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) updatePreferencesHandler(w http.ResponseWriter, r *http.Request) {
	var preferences []string
	if err := app.readJSON(w, r, &preferences); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	if len(preferences) == 0 {
		app.badRequestResponse(w, r, &AppError{ErrorMessage: "Add minimum of one preference"})
		return
	}

	v := validator.New()
	for _, category := range preferences {
		v.CheckNotBlank(category, "preferences", "must not contain blank categories")
	}
	v.Check(v.IsUnique(preferences), "preferences", "must not contain duplicate categories")
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	if err := app.core.ReplacePreferences(r.Context(), user.ID, preferences); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"preferences": preferences, "message": "Resource updated successfully."}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	type changePasswordPayload struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}

	var changePasswordRequest changePasswordPayload
	if err := app.readJSON(w, r, &changePasswordRequest); err != nil {
		app.badRequestResponse(w, r, &AppError{
			ErrorMessage: err.Error(),
			ErrorStack:   err,
		})
		return
	}

	v := validator.New()
	v.CheckNotBlank(changePasswordRequest.CurrentPassword, "currentPassword", "must be provided")
	v.CheckNotBlank(changePasswordRequest.NewPassword, "newPassword", "must be provided")
	v.Check(len(changePasswordRequest.NewPassword) >= 8, "newPassword", "must be at least 8 characters long")
	if !v.IsValid() {
		app.badRequestResponse(w, r, &AppError{ErrorDetails: v.Errors})
		return
	}

	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	match, err := user.IsPasswordMatch(changePasswordRequest.CurrentPassword)
	if err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}
	if !match {
		app.badRequestResponse(w, r, &AppError{ErrorMessage: "Incorrect current password. Please try again."})
		return
	}

	if err := user.SetPassword(changePasswordRequest.NewPassword); err != nil {
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.UpdatePassword(r.Context(), user.ID, user.Password); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusOK, envelope{"message": "Resource updated successfully."}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) uploadProfileImageHandler(w http.ResponseWriter, r *http.Request) {
	user, err := app.auth.GetAuthenticatedUser(r)
	if err != nil {
		app.authenticationRequiredResponse(w, r, err)
		return
	}

	imageRef, err := app.saveUploadedFile(r, "image")
	if err != nil {
		if errors.Is(err, errNoFileUploaded) {
			app.badRequestResponse(w, r, &AppError{ErrorMessage: "No file uploaded"})
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.core.UpdateProfileImage(r.Context(), user.ID, imageRef); err != nil {
		if errors.Is(err, core.NoRecordFound) {
			app.notFoundResponse(w, r)
			return
		}
		app.internalErrorResponse(w, r, err)
		return
	}

	if err := app.writeJSON(w, http.StatusCreated, envelope{"url": imageRef}, nil); err != nil {
		app.internalErrorResponse(w, r, err)
	}
}

func (app *application) sendVerificationEmail(user *auth.User) {
	token, err := app.auth.IssueVerificationToken(user.ID)
	if err != nil {
		app.logger.Error("Failed to issue verification token", "user_id", user.ID, "error", err)
		return
	}

	app.doInBackground(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := app.mail.SendVerificationEmail(ctx, user.Email, app.config.frontendURL, token); err != nil {
			app.logger.Error("Failed to send verification email", "user_id", user.ID, "error", err)
		}
	})
}

func (app *application) setRefreshTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Path:     "/api/users",
		MaxAge:   int(auth.RefreshTokenTTL.Seconds()),
		HttpOnly: true,
		Secure:   app.config.env == "production",
		SameSite: http.SameSiteStrictMode,
	})
}

func validateUserFieldValue(v *validator.Validator, field, value string) (any, error) {
	switch field {
	case "email":
		checkEmail(v, value)
		return value, nil
	case "phone":
		v.CheckNotBlank(value, "phone", "must be provided")
		v.CheckPhone(value, "must be a valid phone number")
		return value, nil
	case "dob":
		dob, err := time.Parse(dateOfBirthLayout, value)
		if err != nil {
			v.AddError("dob", "must be a valid date in the form YYYY-MM-DD")
			return nil, err
		}
		return dob, nil
	default:
		v.CheckNotBlank(value, field, "must be provided")
		return value, nil
	}
}

func checkEmail(v *validator.Validator, email string) {
	v.CheckNotBlank(email, "email", "must be provided")
	v.CheckEmail(email, "must be a valid email address")
}
