package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"github.com/you/badminton-network/internal/events"
	"github.com/you/badminton-network/internal/middlewares"
	"github.com/you/badminton-network/internal/service"
	"github.com/you/badminton-network/pkg/mq"
)

type PaymentHandler struct {
	svc *service.PaymentSvc
	omc *omise.Client
	pub *mq.Publisher
}

func NewPaymentHandler(svc *service.PaymentSvc, omc *omise.Client, pub *mq.Publisher) *PaymentHandler {
	return &PaymentHandler{svc: svc, omc: omc, pub: pub}
}

// POST /v1/payments/charges
func (h *PaymentHandler) CreateCharge(c *gin.Context) {
	var in struct {
		BookingID string `json:"booking_id" binding:"required"`
		Amount    int64  `json:"amount" binding:"required,gt=0"`
		Currency  string `json:"currency" binding:"required"`
		CardToken string `json:"card_token"`
		SourceID  string `json:"source_id"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ch, err := h.svc.CreateCharge(c, service.ChargeInput{
		BookingID: in.BookingID,
		UserID:    middlewares.UserID(c),
		Amount:    in.Amount,
		Currency:  in.Currency,
		CardToken: in.CardToken,
		SourceID:  in.SourceID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"charge": ch})
}

// POST /v1/payments/sources/promptpay
func (h *PaymentHandler) CreatePromptPaySource(c *gin.Context) {
	var in struct {
		Amount   int64  `json:"amount" binding:"required,gt=0"`
		Currency string `json:"currency" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	src, err := h.svc.CreatePromptPaySource(in.Amount, in.Currency)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"source": src})
}

// GET /v1/payments/charges/:id
func (h *PaymentHandler) GetCharge(c *gin.Context) {
	ch, err := h.svc.GetCharge(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"charge": ch})
}

// POST /v1/payments/webhook
//
// Omise calls this on charge completion. The incoming body is untrusted:
// the event is re-fetched from Omise by id before anything is published.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	var inc struct {
		ID  string `json:"id"`
		Key string `json:"key"`
	}
	if err := c.ShouldBindJSON(&inc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	ev := &omise.Event{}
	if err := h.omc.Do(ev, &operations.RetrieveEvent{EventID: inc.ID}); err != nil {
		log.Printf("[webhook] retrieve event error: %v", err)
		c.Status(http.StatusUnauthorized)
		return
	}

	if ev.Key != "charge.complete" {
		c.Status(http.StatusOK)
		return
	}

	raw, err := json.Marshal(ev.Data)
	if err != nil {
		log.Printf("[webhook] marshal event data error: %v", err)
		c.Status(http.StatusOK)
		return
	}
	var ch omise.Charge
	if err := json.Unmarshal(raw, &ch); err != nil {
		log.Printf("[webhook] unmarshal charge error: %v", err)
		c.Status(http.StatusOK)
		return
	}

	bookingID, _ := ch.Metadata["booking_id"].(string)
	if string(ch.Status) == "successful" {
		if err := h.pub.PublishJSON(c, events.RKPaymentPaid, events.PaymentPaid{
			BookingID: bookingID, ChargeID: ch.ID, Amount: ch.Amount, Currency: ch.Currency,
		}); err != nil {
			log.Printf("[webhook] publish payment.paid error: %v", err)
		}
	} else {
		var reason string
		if ch.FailureCode != nil {
			reason = *ch.FailureCode
		}
		if err := h.pub.PublishJSON(c, events.RKPaymentFailed, events.PaymentFailed{
			BookingID: bookingID, ChargeID: ch.ID, FailureCode: reason,
		}); err != nil {
			log.Printf("[webhook] publish payment.failed error: %v", err)
		}
	}
	c.Status(http.StatusOK)
}
