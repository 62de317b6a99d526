package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mdobak/go-xerrors"
)

const (
	PurposeVerification = "verification"
	PurposeAccess       = "access"
	PurposeRefresh      = "refresh"
)

const (
	VerificationTokenTTL = 10 * time.Minute
	AccessTokenTTL       = 20 * time.Minute
	RefreshTokenTTL      = 7 * 24 * time.Hour
)

var (
	ErrTokenExpired   = xerrors.Message("Token has expired")
	ErrTokenMalformed = xerrors.Message("Invalid token")
)

// TokenPair is the access/refresh pair minted on login and on every refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

func (auth *Auth) IssueVerificationToken(userID int64) (string, error) {
	return auth.issueToken(userID, PurposeVerification, VerificationTokenTTL, auth.accessSecret)
}

func (auth *Auth) IssueAccessToken(userID int64) (string, error) {
	return auth.issueToken(userID, PurposeAccess, AccessTokenTTL, auth.accessSecret)
}

func (auth *Auth) IssueRefreshToken(userID int64) (string, error) {
	return auth.issueToken(userID, PurposeRefresh, RefreshTokenTTL, auth.refreshSecret)
}

func (auth *Auth) IssueTokenPair(userID int64) (*TokenPair, error) {
	accessToken, err := auth.IssueAccessToken(userID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	refreshToken, err := auth.IssueRefreshToken(userID)
	if err != nil {
		return nil, xerrors.New(err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (auth *Auth) VerifyVerificationToken(tokenString string) (int64, error) {
	return auth.verifyToken(tokenString, PurposeVerification, auth.accessSecret)
}

func (auth *Auth) VerifyAccessToken(tokenString string) (int64, error) {
	return auth.verifyToken(tokenString, PurposeAccess, auth.accessSecret)
}

func (auth *Auth) VerifyRefreshToken(tokenString string) (int64, error) {
	return auth.verifyToken(tokenString, PurposeRefresh, auth.refreshSecret)
}

func (auth *Auth) issueToken(userID int64, purpose string, ttl time.Duration, secret []byte) (string, error) {
	expireAt := time.Now().Add(ttl)
	claim := UserClaim{
		UserID:  userID,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expireAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claim)
	signedString, err := token.SignedString(secret)
	if err != nil {
		return "", xerrors.New(err)
	}

	return signedString, nil
}

func (auth *Auth) verifyToken(tokenString string, purpose string, secret []byte) (int64, error) {
	parsedToken, err := jwt.ParseWithClaims(tokenString, &UserClaim{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, xerrors.New("unexpected signing method")
		}
		return secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, xerrors.New(ErrTokenExpired)
		}
		return 0, xerrors.New(ErrTokenMalformed)
	}

	if !parsedToken.Valid {
		return 0, xerrors.New(ErrTokenMalformed)
	}

	claim, ok := parsedToken.Claims.(*UserClaim)
	if !ok {
		return 0, xerrors.New(ErrTokenMalformed)
	}

	if claim.Purpose != purpose {
		return 0, xerrors.New(ErrTokenMalformed)
	}

	return claim.UserID, nil
}
