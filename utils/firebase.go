// utils/firebase.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"hausly/config"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var (
	FirebaseAuth *auth.Client
	FCMClient    *messaging.Client
)

// serviceAccount is the subset of a Google service-account key the Admin SDK needs.
type serviceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
	TokenURI    string `json:"token_uri"`
}

func firebaseCredentials() (option.ClientOption, error) {
	cfg := config.AppConfig
	if cfg.FirebaseCredentialsFile != "" {
		return option.WithCredentialsFile(cfg.FirebaseCredentialsFile), nil
	}
	if cfg.FirebaseClientEmail == "" || cfg.FirebasePrivateKey == "" {
		return nil, fmt.Errorf("firebase: no credentials file and no client email/private key configured")
	}
	raw, err := json.Marshal(serviceAccount{
		Type:        "service_account",
		ProjectID:   cfg.FirebaseProjectID,
		ClientEmail: cfg.FirebaseClientEmail,
		// Keys injected through env vars usually carry escaped newlines.
		PrivateKey: strings.ReplaceAll(cfg.FirebasePrivateKey, `\n`, "\n"),
		TokenURI:   "https://oauth2.googleapis.com/token",
	})
	if err != nil {
		return nil, fmt.Errorf("firebase: failed to encode service account: %w", err)
	}
	return option.WithCredentialsJSON(raw), nil
}

// FirebaseInit initializes the Firebase App along with its Auth and Messaging clients.
func FirebaseInit() {
	ctx := context.Background()
	opt, err := firebaseCredentials()
	if err != nil {
		log.Fatalf("firebase: %v", err)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: config.AppConfig.FirebaseProjectID}, opt)
	if err != nil {
		log.Fatalf("firebase: error initializing app: %v", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Auth client: %v", err)
	}
	FirebaseAuth = authClient

	fcm, err := app.Messaging(ctx)
	if err != nil {
		log.Fatalf("firebase: error getting Messaging client: %v", err)
	}
	FCMClient = fcm
}
