package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/vibast-solutions/ms-go-lubycash/app/dto"
	"github.com/vibast-solutions/ms-go-lubycash/app/entity"

	"github.com/segmentio/kafka-go"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error { return nil }

func TestPublishResetToken(t *testing.T) {
	fw := &fakeWriter{}
	p := NewProducerWithWriter(fw, "new-password-tokens", "customer-validation-results")

	user := &dto.UserResponse{SecureID: "secure-1", Email: "alice@example.com", Roles: entity.NewRoleSet(entity.RoleUser)}
	if err := p.PublishResetToken(context.Background(), user, "tok"); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(fw.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(fw.msgs))
	}

	msg := fw.msgs[0]
	if msg.Topic != "new-password-tokens" || string(msg.Key) != "secure-1" {
		t.Fatalf("unexpected message routing: topic=%s key=%s", msg.Topic, msg.Key)
	}

	var decoded ResetTokenMessage
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Token != "tok" || decoded.User.Email != "alice@example.com" || decoded.User.Roles != user.Roles {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestPublishValidationResult(t *testing.T) {
	fw := &fakeWriter{}
	p := NewProducerWithWriter(fw, "tokens", "validations")

	user := &dto.UserResponse{SecureID: "secure-2"}
	if err := p.PublishValidationResult(context.Background(), user, ResultApproved); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if len(fw.msgs) != 1 || fw.msgs[0].Topic != "validations" {
		t.Fatalf("unexpected messages: %+v", fw.msgs)
	}

	var decoded ValidationResultMessage
	if err := json.Unmarshal(fw.msgs[0].Value, &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.Result != ResultApproved {
		t.Fatalf("unexpected result: %s", decoded.Result)
	}
}

func TestPublish_WriterError(t *testing.T) {
	writeErr := errors.New("broker down")
	p := NewProducerWithWriter(&fakeWriter{err: writeErr}, "tokens", "validations")

	err := p.PublishResetToken(context.Background(), &dto.UserResponse{SecureID: "s"}, "tok")
	if !errors.Is(err, writeErr) {
		t.Fatalf("expected writer error, got %v", err)
	}
}
