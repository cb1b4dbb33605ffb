package command_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marcelsud/session-bridge/command"
	cmdmocks "github.com/marcelsud/session-bridge/command/mocks"
	"github.com/marcelsud/session-bridge/driver"
	drvmocks "github.com/marcelsud/session-bridge/driver/mocks"
	"github.com/marcelsud/session-bridge/event"
	"github.com/marcelsud/session-bridge/webhook"
	whmocks "github.com/marcelsud/session-bridge/webhook/mocks"
)

type fixture struct {
	driver    *drvmocks.Driver
	publisher *whmocks.UseCase
	images    *cmdmocks.ImageLoader
	svc       *command.Service
}

func newFixture(t *testing.T) fixture {
	f := fixture{
		driver:    drvmocks.NewDriver(t),
		publisher: whmocks.NewUseCase(t),
		images:    cmdmocks.NewImageLoader(t),
	}
	f.svc = command.NewService(4, f.driver, f.publisher, f.images)
	return f
}

func TestSendText(t *testing.T) {
	t.Run("success - sends and publishes send_text", func(t *testing.T) {
		f := newFixture(t)
		f.driver.On("IsReady").Return(true)
		f.driver.On("SendText", mock.Anything, "5511@c.us", "hello").Return("MSG1", nil)
		f.publisher.On("Publish", mock.Anything, webhook.MatchEvent(func(e event.Event) bool {
			p, ok := e.Payload.(event.SendTextPayload)
			return ok && e.Type == event.SendText && e.SessionID == 4 &&
				p.ChatID == "5511@c.us" && p.Message == "hello" && p.MessageID == "MSG1" &&
				e.RequestHeaders["X-Trace"] == "t1"
		})).Return(nil, nil).Once()

		ctx := command.WithRequestHeaders(context.Background(), map[string]string{"X-Trace": "t1"})
		res, err := f.svc.SendText(ctx, command.SendTextInput{ChatID: "5511@c.us", Message: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "MSG1", res.MessageID)
		f.svc.Wait()
	})

	t.Run("error - empty input never touches the driver", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SendText(context.Background(), command.SendTextInput{})
		require.Error(t, err)
		assert.ErrorIs(t, err, command.ErrBadRequest)
		assert.Equal(t, "chatId and message are required", err.Error())
		f.driver.AssertNotCalled(t, "IsReady")
	})

	t.Run("error - not ready", func(t *testing.T) {
		f := newFixture(t)
		f.driver.On("IsReady").Return(false)
		_, err := f.svc.SendText(context.Background(), command.SendTextInput{ChatID: "1@c.us", Message: "x"})
		assert.ErrorIs(t, err, command.ErrNotReady)
		assert.Equal(t, "WhatsApp client not ready", err.Error())
	})

	t.Run("error - driver failure publishes nothing", func(t *testing.T) {
		f := newFixture(t)
		f.driver.On("IsReady").Return(true)
		f.driver.On("SendText", mock.Anything, "1@c.us", "x").Return("", errors.New("socket closed"))
		_, err := f.svc.SendText(context.Background(), command.SendTextInput{ChatID: "1@c.us", Message: "x"})
		assert.ErrorIs(t, err, command.ErrDriverFailure)
		f.svc.Wait()
		f.publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
	})
}

func TestSeen(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.driver.On("IsReady").Return(true)
		f.driver.On("MarkSeen", mock.Anything, "1@c.us").Return(nil)
		f.publisher.On("Publish", mock.Anything, webhook.MatchEventType(event.Seen)).Return(nil, nil).Once()

		require.NoError(t, f.svc.Seen(context.Background(), "1@c.us"))
		f.svc.Wait()
	})

	t.Run("error - missing chat", func(t *testing.T) {
		f := newFixture(t)
		err := f.svc.Seen(context.Background(), "")
		assert.ErrorIs(t, err, command.ErrBadRequest)
	})
}

func TestTyping(t *testing.T) {
	t.Run("success - clear scheduled after duration", func(t *testing.T) {
		f := newFixture(t)
		f.driver.On("IsReady").Return(true)
		f.driver.On("SetTyping", mock.Anything, "1@c.us", true).Return(nil).Once()
		f.driver.On("SetTyping", mock.Anything, "1@c.us", false).Return(nil).Once()
		f.publisher.On("Publish", mock.Anything, webhook.MatchEvent(func(e event.Event) bool {
			p, ok := e.Payload.(event.TypingPayload)
			return ok && p.IsTyping && p.Duration == 20
		})).Return(nil, nil).Once()

		require.NoError(t, f.svc.Typing(context.Background(), "1@c.us", 20*time.Millisecond))
		f.svc.Wait()
	})

	t.Run("success - two calls schedule two clears", func(t *testing.T) {
		f := newFixture(t)
		f.driver.On("IsReady").Return(true)
		f.driver.On("SetTyping", mock.Anything, "1@c.us", true).Return(nil).Twice()
		f.driver.On("SetTyping", mock.Anything, "1@c.us", false).Return(nil).Twice()
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil, nil).Twice()

		require.NoError(t, f.svc.Typing(context.Background(), "1@c.us", 5*time.Millisecond))
		require.NoError(t, f.svc.Typing(context.Background(), "1@c.us", 5*time.Millisecond))
		f.svc.Wait()
	})

	t.Run("error - cancelled request still clears", func(t *testing.T) {
		f := newFixture(t)
		f.driver.On("IsReady").Return(true)
		f.driver.On("SetTyping", mock.Anything, "1@c.us", true).Return(nil).Once()
		f.driver.On("SetTyping", mock.Anything, "1@c.us", false).Return(nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil, nil).Once()

		ctx, cancel := context.WithCancel(context.Background())
		require.NoError(t, f.svc.Typing(ctx, "1@c.us", 5*time.Millisecond))
		cancel()
		f.svc.Wait()
	})
}

func TestSendImage(t *testing.T) {
	img := driver.Media{MimeType: "image/png", Data: []byte("png")}

	t.Run("success", func(t *testing.T) {
		f := newFixture(t)
		f.driver.On("IsReady").Return(true)
		f.images.On("Load", mock.Anything, "", "aGk=").Return(img, nil)
		f.driver.On("SendImage", mock.Anything, "1@c.us", img, "look").Return("IMG1", nil)
		f.publisher.On("Publish", mock.Anything, webhook.MatchEvent(func(e event.Event) bool {
			p, ok := e.Payload.(event.SendImagePayload)
			return ok && p.MimeType == "image/png" && p.MessageID == "IMG1" && p.Caption == "look"
		})).Return(nil, nil).Once()

		res, err := f.svc.SendImage(context.Background(), command.SendImageInput{ChatID: "1@c.us", ImageBase64: "aGk=", Caption: "look"})
		require.NoError(t, err)
		assert.Equal(t, "IMG1", res.MessageID)
		f.svc.Wait()
	})

	t.Run("error - validation order", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.SendImage(context.Background(), command.SendImageInput{})
		assert.Equal(t, "chatId is required", err.Error())
		_, err = f.svc.SendImage(context.Background(), command.SendImageInput{ChatID: "1@c.us"})
		assert.Equal(t, "imageUrl or imageBase64 is required", err.Error())
		assert.ErrorIs(t, err, command.ErrBadRequest)
	})

	t.Run("error - media failure", func(t *testing.T) {
		f := newFixture(t)
		f.images.On("Load", mock.Anything, "http://x/a.png", "").Return(driver.Media{}, errors.New("404"))
		_, err := f.svc.SendImage(context.Background(), command.SendImageInput{ChatID: "1@c.us", ImageURL: "http://x/a.png"})
		assert.ErrorIs(t, err, command.ErrMedia)
		assert.Equal(t, "Media error: 404", err.Error())
	})

	t.Run("error - readiness is checked with the driver held", func(t *testing.T) {
		f := newFixture(t)
		var log callLog
		entered, release := make(chan struct{}), make(chan struct{})

		f.driver.On("IsReady").Return(true).Once()
		f.driver.On("SendText", mock.Anything, "1@c.us", "hi").
			Run(func(args mock.Arguments) {
				close(entered)
				<-release
				log.add("send_text")(args)
			}).
			Return("M1", nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil, nil).Once()
		f.images.On("Load", mock.Anything, "", "aGk=").Run(log.add("load")).Return(img, nil).Once()
		f.driver.On("IsReady").Run(log.add("is_ready")).Return(false).Once()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, err := f.svc.SendText(context.Background(), command.SendTextInput{ChatID: "1@c.us", Message: "hi"})
			assert.NoError(t, err)
		}()
		<-entered

		imgDone := make(chan error, 1)
		go func() {
			_, err := f.svc.SendImage(context.Background(), command.SendImageInput{ChatID: "1@c.us", ImageBase64: "aGk="})
			imgDone <- err
		}()

		time.Sleep(50 * time.Millisecond)
		assert.Equal(t, []string{"load"}, log.get())

		close(release)
		<-done
		assert.ErrorIs(t, <-imgDone, command.ErrNotReady)
		f.svc.Wait()
		assert.Equal(t, []string{"load", "send_text", "is_ready"}, log.get())
	})
}

func TestRelay(t *testing.T) {
	t.Run("success - send_text", func(t *testing.T) {
		f := newFixture(t)
		f.driver.On("IsReady").Return(true)
		f.driver.On("SendText", mock.Anything, "1@c.us", "hey").Return("M9", nil)
		f.publisher.On("Publish", mock.Anything, webhook.MatchEventType(event.SendText)).Return(nil, nil).Once()

		res, err := f.svc.Relay(context.Background(), command.RelayInput{Event: "send_text", Data: &command.RelayData{ChatID: "1@c.us", Message: "hey"}})
		require.NoError(t, err)
		assert.Equal(t, "M9", res.MessageID)
		assert.Equal(t, "Message sent successfully", res.Message)
		f.svc.Wait()
	})

	t.Run("success - typing defaults to 3000ms", func(t *testing.T) {
		f := newFixture(t)
		f.driver.On("IsReady").Return(true)
		f.driver.On("SetTyping", mock.Anything, "1@c.us", true).Return(nil)
		f.driver.On("SetTyping", mock.Anything, "1@c.us", false).Return(nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil, nil).Once()

		res, err := f.svc.Relay(context.Background(), command.RelayInput{Event: "typing", Data: &command.RelayData{ChatID: "1@c.us"}})
		require.NoError(t, err)
		assert.Equal(t, "Started typing for 3000ms", res.Message)
		f.svc.Wait()
	})

	t.Run("error - bad requests", func(t *testing.T) {
		f := newFixture(t)
		cases := map[string]command.RelayInput{
			"Invalid event format":   {},
			"Unsupported event type": {Event: "dance", Data: &command.RelayData{ChatID: "1@c.us"}},
			"Missing required data":  {Event: "send_text", Data: &command.RelayData{ChatID: "1@c.us"}},
		}
		for want, in := range cases {
			_, err := f.svc.Relay(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, command.ErrBadRequest)
			assert.Equal(t, want, err.Error())
		}
		_, err := f.svc.Relay(context.Background(), command.RelayInput{Event: "seen"})
		assert.Equal(t, "Missing required data", err.Error())
	})
}

// callLog records driver calls in the order they complete
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) func(mock.Arguments) {
	return func(mock.Arguments) {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.calls = append(l.calls, name)
	}
}

func (l *callLog) get() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

func TestCommandsAreSerialized(t *testing.T) {
	t.Run("typing waits for an in-flight send-text", func(t *testing.T) {
		f := newFixture(t)
		var log callLog
		entered, release := make(chan struct{}), make(chan struct{})

		f.driver.On("IsReady").Return(true)
		f.driver.On("SendText", mock.Anything, "1@c.us", "hi").
			Run(func(args mock.Arguments) {
				close(entered)
				<-release
				log.add("send_text")(args)
			}).
			Return("M1", nil).Once()
		f.driver.On("SetTyping", mock.Anything, "1@c.us", true).Run(log.add("typing_on")).Return(nil).Once()
		f.driver.On("SetTyping", mock.Anything, "1@c.us", false).Run(log.add("typing_off")).Return(nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil, nil).Twice()

		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := f.svc.SendText(context.Background(), command.SendTextInput{ChatID: "1@c.us", Message: "hi"})
			assert.NoError(t, err)
		}()
		<-entered
		go func() {
			defer wg.Done()
			assert.NoError(t, f.svc.Typing(context.Background(), "1@c.us", 5*time.Millisecond))
		}()

		time.Sleep(50 * time.Millisecond)
		assert.Empty(t, log.get())

		close(release)
		wg.Wait()
		f.svc.Wait()
		assert.Equal(t, []string{"send_text", "typing_on", "typing_off"}, log.get())
	})

	t.Run("typing clear waits for an in-flight send-text", func(t *testing.T) {
		f := newFixture(t)
		var log callLog
		entered, release := make(chan struct{}), make(chan struct{})

		f.driver.On("IsReady").Return(true)
		f.driver.On("SetTyping", mock.Anything, "1@c.us", true).Run(log.add("typing_on")).Return(nil).Once()
		f.driver.On("SetTyping", mock.Anything, "1@c.us", false).Run(log.add("typing_off")).Return(nil).Once()
		f.driver.On("SendText", mock.Anything, "1@c.us", "hi").
			Run(func(args mock.Arguments) {
				close(entered)
				<-release
				log.add("send_text")(args)
			}).
			Return("M1", nil).Once()
		f.publisher.On("Publish", mock.Anything, mock.Anything).Return(nil, nil).Twice()

		require.NoError(t, f.svc.Typing(context.Background(), "1@c.us", 100*time.Millisecond))

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, err := f.svc.SendText(context.Background(), command.SendTextInput{ChatID: "1@c.us", Message: "hi"})
			assert.NoError(t, err)
		}()
		<-entered

		// the clear is due while send-text still holds the driver
		time.Sleep(250 * time.Millisecond)
		assert.Equal(t, []string{"typing_on"}, log.get())

		close(release)
		<-done
		f.svc.Wait()
		assert.Equal(t, []string{"typing_on", "send_text", "typing_off"}, log.get())
	})
}
