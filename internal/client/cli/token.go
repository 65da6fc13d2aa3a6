package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo decodes the held access token without verifying its signature
// and prints the claims of interest. Purely informational: validity is the
// server's call, checked via 'probe'.
func (a *App) TokenInfo(_ context.Context) {
	if !a.requireAuth() {
		return
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(a.store.AccessToken(), claims); err != nil {
		fmt.Println("Could not decode access token:", err.Error())
		return
	}

	if v, ok := claims["token_type"].(string); ok {
		fmt.Println("Type:   ", v)
	}
	if v, ok := claims["user_id"].(float64); ok {
		fmt.Println("User ID:", int64(v))
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		fmt.Println("Expires:", exp.Time.Format(time.RFC3339), "(in", time.Until(exp.Time).Round(time.Second).String()+")")
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		fmt.Println("Issued: ", iat.Time.Format(time.RFC3339))
	}
}
