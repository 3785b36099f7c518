package services

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/chachabrian/tvdefleet-backend/internal/models"
	"google.golang.org/api/option"
)

// AdminTopic is the FCM topic every back-office device subscribes to
const AdminTopic = "fleet-admins"

// SendEach accepts at most 500 messages
const fcmBatchLimit = 500

// PushNotifier sends inbox notifications to staff devices through Firebase
// Cloud Messaging. A nil client disables it.
type PushNotifier struct {
	client *messaging.Client
	topic  string
}

// InitFirebase initializes the Firebase Admin SDK. It returns a disabled
// notifier when no service account is configured.
func InitFirebase(ctx context.Context, serviceAccountPath string) (*PushNotifier, error) {
	if serviceAccountPath == "" {
		log.Println("Warning: FIREBASE_SERVICE_ACCOUNT_PATH not set. Push notifications will be disabled.")
		return &PushNotifier{topic: AdminTopic}, nil
	}

	opt := option.WithCredentialsFile(serviceAccountPath)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %v", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting messaging client: %v", err)
	}

	log.Println("Firebase Cloud Messaging initialized successfully")
	return &PushNotifier{client: client, topic: AdminTopic}, nil
}

func (p *PushNotifier) Enabled() bool {
	return p != nil && p.client != nil
}

// buildMessage maps an inbox notification to an FCM topic message
func buildMessage(topic string, n models.AppNotification) *messaging.Message {
	priority := messaging.PriorityDefault
	return &messaging.Message{
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: map[string]string{
			"id":   n.ID,
			"date": n.Date,
			"type": "notification",
		},
		Topic: topic,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID:    "fleet_alerts",
				Priority:     priority,
				DefaultSound: true,
				Tag:          n.ID,
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound:            "default",
					ContentAvailable: true,
				},
			},
		},
	}
}

// Deliver implements Sink
func (p *PushNotifier) Deliver(ctx context.Context, notifications []models.AppNotification) error {
	if !p.Enabled() {
		return nil
	}

	for start := 0; start < len(notifications); start += fcmBatchLimit {
		end := start + fcmBatchLimit
		if end > len(notifications) {
			end = len(notifications)
		}

		messages := make([]*messaging.Message, 0, end-start)
		for _, n := range notifications[start:end] {
			messages = append(messages, buildMessage(p.topic, n))
		}

		response, err := p.client.SendEach(ctx, messages)
		if err != nil {
			return fmt.Errorf("error sending topic messages: %v", err)
		}
		log.Printf("Sent %d notifications to topic %s, %d failures", response.SuccessCount, p.topic, response.FailureCount)
	}
	return nil
}

// SubscribeDevice registers a staff device token for fleet alerts
func (p *PushNotifier) SubscribeDevice(ctx context.Context, token string) error {
	if !p.Enabled() {
		log.Println("Warning: Firebase not initialized. Skipping topic subscription.")
		return nil
	}

	response, err := p.client.SubscribeToTopic(ctx, []string{token}, p.topic)
	if err != nil {
		return fmt.Errorf("error subscribing to topic: %v", err)
	}

	log.Printf("Successfully subscribed %d tokens to topic %s, %d failures", response.SuccessCount, p.topic, response.FailureCount)
	return nil
}

// UnsubscribeDevice removes a staff device token from fleet alerts
func (p *PushNotifier) UnsubscribeDevice(ctx context.Context, token string) error {
	if !p.Enabled() {
		return nil
	}

	response, err := p.client.UnsubscribeFromTopic(ctx, []string{token}, p.topic)
	if err != nil {
		return fmt.Errorf("error unsubscribing from topic: %v", err)
	}

	log.Printf("Successfully unsubscribed %d tokens from topic %s, %d failures", response.SuccessCount, p.topic, response.FailureCount)
	return nil
}
