package controllers

import (
	"time"

	"github.com/Kariqs/freezy-bites-api/realtime"
	"github.com/Kariqs/freezy-bites-api/services"
	"github.com/Kariqs/freezy-bites-api/utils"
)

type Dependencies struct {
	JWTSecret      string
	Notifier       services.Notifier
	Accounts       services.AccountMailer
	OrderFeed      *realtime.Hub
	Images         utils.ImageStore
	ReceiptTimeout time.Duration
}

var deps = Dependencies{Notifier: services.NopNotifier{}, Accounts: services.NopNotifier{}, ReceiptTimeout: 5 * time.Second}

func Configure(d Dependencies) {
	if d.Notifier == nil {
		d.Notifier = services.NopNotifier{}
	}
	if d.Accounts == nil {
		d.Accounts = services.NopNotifier{}
	}
	if d.ReceiptTimeout <= 0 {
		d.ReceiptTimeout = 5 * time.Second
	}
	deps = d
}
