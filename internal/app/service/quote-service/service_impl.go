package quote_service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"quoteform-backend/internal/logger"
	"quoteform-backend/internal/mailer"
	"quoteform-backend/internal/model/webrequest"
	"quoteform-backend/internal/model/webresponse"
	"quoteform-backend/internal/provider"
	"quoteform-backend/internal/task"
)

// fallbackMessageID is used when the provider acknowledges a send without
// assigning an id of its own.
const fallbackMessageID = "sent"

type QuoteServiceImpl struct {
	Sender   provider.Sender
	Executor *task.Executor
	From     string
	To       string
}

func NewQuoteService(sender provider.Sender, executor *task.Executor, from, to string) QuoteService {
	return &QuoteServiceImpl{
		Sender:   sender,
		Executor: executor,
		From:     from,
		To:       to,
	}
}

// Submit validates a quote request, sends the business notification and
// queues the confirmation email. The status code mirrors the outcome: 200
// for sent or honeypot-skipped, 400 for validation failures, 500 when the
// provider rejects the send.
func (q *QuoteServiceImpl) Submit(c *gin.Context, request webrequest.QuoteRequest) (webresponse.SubmitResponse, int) {
	if request.IsSpam() {
		logger.AppLogger.Info().Msg("honeypot field filled, skipping submission")
		return webresponse.SubmitResponse{OK: true, Skipped: true}, http.StatusOK
	}

	request = request.Normalized()

	if field := request.FirstMissingField(); field != "" {
		return webresponse.SubmitResponse{
			Error: fmt.Sprintf("Please provide a %s.", field),
		}, http.StatusBadRequest
	}

	msg := mailer.BuildBusinessEmail(q.From, q.To, request)

	id, err := q.Sender.Send(c.Request.Context(), msg)
	if err != nil {
		logger.AppLogger.Error().Err(err).
			Str("provider", q.Sender.Name()).
			Msg("failed to send business email")

		var provErr *provider.Error
		if errors.As(err, &provErr) && provErr.Message != "" {
			return webresponse.SubmitResponse{Error: provErr.Message}, http.StatusInternalServerError
		}
		return webresponse.SubmitResponse{
			Error: "Failed to send email. Please try again later.",
		}, http.StatusInternalServerError
	}

	q.queueConfirmation(request)

	if id == "" {
		id = fallbackMessageID
	}

	logger.AppLogger.Info().
		Str("id", id).
		Str("service", request.Service).
		Msg("quote request sent")

	return webresponse.SubmitResponse{OK: true, ID: id}, http.StatusOK
}

// queueConfirmation hands the confirmation email to the background
// executor. The submission response never depends on it; a full queue or a
// failed send is only logged.
func (q *QuoteServiceImpl) queueConfirmation(request webrequest.QuoteRequest) {
	confirmation := mailer.BuildConfirmationEmail(q.From, request)

	submitted := q.Executor.Submit("confirmation-email", func(ctx context.Context) error {
		_, err := q.Sender.Send(ctx, confirmation)
		return err
	})
	if !submitted {
		logger.AppLogger.Warn().Msg("confirmation email dropped")
	}
}
