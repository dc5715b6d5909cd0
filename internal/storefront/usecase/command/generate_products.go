package command

import (
	"context"
	"strings"

	"github.com/tair/affiliate-reviews/internal/storefront/domain"
)

// Messages shown by the admin panel
const (
	MsgBlankTopic        = "Please enter a product topic."
	MsgNotSignedIn       = "You must be logged in to access the Admin Panel."
	MsgProductsGenerated = "Products generated successfully!"
	MsgUnexpected        = "An unexpected error occurred."
)

// GenerateProductsCommand represents the admin request to create AI products for a topic
type GenerateProductsCommand struct {
	Topic  string
	UserID string
}

// GenerateProductsHandler invokes the bulk generation function
type GenerateProductsHandler struct {
	invoker   domain.FunctionInvoker
	publisher domain.ActivityPublisher
}

// NewGenerateProductsHandler creates a new generate products handler
func NewGenerateProductsHandler(invoker domain.FunctionInvoker, publisher domain.ActivityPublisher) *GenerateProductsHandler {
	return &GenerateProductsHandler{invoker: invoker, publisher: publisher}
}

// Handle executes the generate products command and returns the message to show
func (h *GenerateProductsHandler) Handle(ctx context.Context, cmd GenerateProductsCommand) (string, error) {
	if strings.TrimSpace(cmd.Topic) == "" {
		return "", &domain.Error{Kind: domain.KindValidation, Op: "generate products", Message: MsgBlankTopic, Err: domain.ErrBlankInput}
	}
	if cmd.UserID == "" {
		return "", &domain.Error{Kind: domain.KindValidation, Op: "generate products", Message: MsgNotSignedIn, Err: domain.ErrNotSignedIn}
	}

	msg, err := h.invoker.InvokeBulkGenerate(ctx, cmd.Topic)
	if err != nil {
		if domain.IsKind(err, domain.KindFunction) {
			return "", err
		}
		return "", domain.NewFunctionError("generate products", MsgUnexpected, err)
	}

	publishActivity(ctx, h.publisher, domain.ActivityEvent{
		Type:   domain.EventProductsGenerated,
		UserID: cmd.UserID,
		Topic:  cmd.Topic,
	})

	if msg == "" {
		msg = MsgProductsGenerated
	}
	return msg, nil
}
