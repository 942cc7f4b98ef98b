package realtime

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var ErrInvalidTicket = errors.New("invalid socket ticket")

// TicketIssuer signs the short-lived tickets a browser presents on the
// websocket handshake, where it cannot send an Authorization header.
type TicketIssuer struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

func NewTicketIssuer(secret string, ttl time.Duration) *TicketIssuer {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &TicketIssuer{Secret: []byte(secret), TTL: ttl, now: time.Now}
}

func (t *TicketIssuer) clock() time.Time {
	if t.now == nil {
		return time.Now()
	}
	return t.now()
}

// Issue returns a signed ticket for uid and its expiry.
func (t *TicketIssuer) Issue(uid string) (string, time.Time, error) {
	if len(t.Secret) == 0 {
		return "", time.Time{}, errors.New("socket ticket secret not configured")
	}
	issued := t.clock()
	expires := issued.Add(t.TTL)
	claims := jwt.StandardClaims{
		Subject:   uid,
		IssuedAt:  issued.Unix(),
		ExpiresAt: expires.Unix(),
		Audience:  "ws",
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign socket ticket: %w", err)
	}
	return signed, expires, nil
}

// Parse validates a ticket and returns the UID it was issued to.
func (t *TicketIssuer) Parse(ticket string) (string, error) {
	claims := &jwt.StandardClaims{}
	token, err := jwt.ParseWithClaims(ticket, claims, func(tok *jwt.Token) (interface{}, error) {
		if _, ok := tok.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", tok.Header["alg"])
		}
		return t.Secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidTicket
	}
	if !claims.VerifyAudience("ws", true) || claims.Subject == "" {
		return "", ErrInvalidTicket
	}
	return claims.Subject, nil
}
