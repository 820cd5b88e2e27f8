package apiexternal

import (
	"errors"
	"time"

	"github.com/RussellLuo/slidingwindow"
	"github.com/gregdel/pushover"
	"golang.org/x/time/rate"
)

type PushOverClient struct {
	ApiKey        string
	Limiter       *rate.Limiter
	LimiterWindow *slidingwindow.Limiter
}

var PushoverApi PushOverClient

func NewPushOverClient(apikey string) {
	limiter, _ := slidingwindow.NewLimiter(10*time.Second, 3, func() (slidingwindow.Window, slidingwindow.StopFunc) { return slidingwindow.NewLocalWindow() })
	rl := rate.NewLimiter(rate.Every(10*time.Second), 3) // 3 requests every 10 seconds
	PushoverApi = PushOverClient{ApiKey: apikey, Limiter: rl, LimiterWindow: limiter}
}

//SendMessage pushes a notification, used after an initial data import
//finishes.
func (p PushOverClient) SendMessage(messagetext string, title string, recipientkey string) error {
	if !p.LimiterWindow.Allow() {
		isok := false
		for i := 0; i < 10; i++ {
			time.Sleep(1 * time.Second)
			if p.LimiterWindow.Allow() {
				isok = true
				break
			}
		}
		if !isok {
			return errors.New("please wait")
		}
	}
	app := pushover.New(p.ApiKey)
	recipient := pushover.NewRecipient(recipientkey)
	message := pushover.NewMessageWithTitle(messagetext, title)
	_, errp := app.SendMessage(message, recipient)
	return errp
}
