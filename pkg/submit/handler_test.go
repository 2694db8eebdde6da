package submit_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"

	theme "github.com/goliatone/go-theme"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formsubmit/pkg/dom"
	"github.com/goliatone/go-formsubmit/pkg/dom/memdom"
	"github.com/goliatone/go-formsubmit/pkg/envelope"
	"github.com/goliatone/go-formsubmit/pkg/formdata"
	"github.com/goliatone/go-formsubmit/pkg/submit"
	"github.com/goliatone/go-formsubmit/pkg/theming"
	"github.com/goliatone/go-formsubmit/pkg/transport"
)

type recordedCall struct {
	Path string
	Body string
}

type stubClient struct {
	mu     sync.Mutex
	calls  []recordedCall
	status int
	body   string
	err    error
	before func()
}

func (c *stubClient) PostJSON(_ context.Context, path string, body []byte) (transport.Response, error) {
	c.mu.Lock()
	c.calls = append(c.calls, recordedCall{Path: path, Body: string(body)})
	c.mu.Unlock()
	if c.before != nil {
		c.before()
	}
	if c.err != nil {
		return transport.Response{}, c.err
	}
	return transport.Response{StatusCode: c.status, Body: []byte(c.body)}, nil
}

func (c *stubClient) Calls() []recordedCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]recordedCall(nil), c.calls...)
}

func reply(status int, body string) *stubClient {
	return &stubClient{status: status, body: body}
}

func newHandler(t *testing.T, profile submit.Profile, client transport.Client, options ...submit.Option) (*submit.Handler, *memdom.Document) {
	t.Helper()
	doc := memdom.NewWithFields(profile.Fields)
	handler, err := submit.New(profile, doc, client, options...)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	return handler, doc
}

func loginEvent() *submit.StaticEvent {
	return submit.NewEvent(formdata.Entries{
		{Name: "email", Value: "jane@example.com"},
		{Name: "password", Value: "hunter2"},
	})
}

func registerEvent() *submit.StaticEvent {
	return submit.NewEvent(formdata.Entries{
		{Name: "first_name", Value: "Jane"},
		{Name: "last_name", Value: "Doe"},
		{Name: "email", Value: "jane@example.com"},
		{Name: "password", Value: "Secret1!"},
		{Name: "confirm_password", Value: "Secret1!"},
	})
}

func feedback(doc *memdom.Document, name string) string {
	return doc.Element(dom.FeedbackID("", name)).Text()
}

func invalidFields(doc *memdom.Document, names []string) []string {
	var out []string
	for _, name := range names {
		if doc.Element(name).HasClass(theming.DefaultInvalidClass) {
			out = append(out, name)
		}
	}
	return out
}

func TestSubmit_PreventsDefaultOnEveryOutcome(t *testing.T) {
	cases := map[string]*stubClient{
		"success":         reply(http.StatusOK, `{"status":200}`),
		"global failure":  reply(http.StatusBadRequest, `{"status":400,"__all__":[{"message":"Invalid credentials"}]}`),
		"transport error": {err: fmt.Errorf("%w: connection refused", transport.ErrTransport)},
		"malformed body":  reply(http.StatusInternalServerError, `<html>oops</html>`),
	}

	for name, client := range cases {
		t.Run(name, func(t *testing.T) {
			handler, _ := newHandler(t, submit.LoginProfile(), client)
			ev := loginEvent()
			_, _ = handler.Submit(context.Background(), ev)
			if !ev.Prevented() {
				t.Fatalf("native submission was not prevented")
			}
		})
	}

	t.Run("missing element", func(t *testing.T) {
		doc := memdom.NewWithFields([]string{"email"})
		client := reply(http.StatusOK, `{"status":200}`)
		handler, err := submit.New(submit.LoginProfile(), doc, client)
		if err != nil {
			t.Fatalf("new handler: %v", err)
		}
		ev := loginEvent()
		_, err = handler.Submit(context.Background(), ev)
		if !errors.Is(err, dom.ErrElementNotFound) {
			t.Fatalf("expected ErrElementNotFound, got %v", err)
		}
		if !ev.Prevented() {
			t.Fatalf("native submission was not prevented")
		}
		if len(client.Calls()) != 0 {
			t.Fatalf("request sent despite missing element")
		}
	})
}

func TestSubmit_ClearsFeedbackBeforeRequest(t *testing.T) {
	profile := submit.RegisterProfile()
	client := reply(http.StatusCreated, `{"status":201}`)
	handler, doc := newHandler(t, profile, client)

	for _, name := range profile.Fields {
		doc.Element(dom.FeedbackID("", name)).SetText("left over")
	}

	var seen map[string]string
	client.before = func() {
		seen = make(map[string]string)
		for _, name := range profile.Fields {
			seen[name] = feedback(doc, name)
		}
	}

	if _, err := handler.Submit(context.Background(), registerEvent()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := map[string]string{
		"first_name":       "",
		"last_name":        "",
		"email":            "",
		"password":         "",
		"confirm_password": "",
	}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Fatalf("feedback at request time mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_PostsFlatJSONToProfileEndpoint(t *testing.T) {
	client := reply(http.StatusOK, `{"status":200}`)
	handler, _ := newHandler(t, submit.LoginProfile(), client)

	if _, err := handler.Submit(context.Background(), loginEvent()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := []recordedCall{{Path: "/login", Body: `{"email":"jane@example.com","password":"hunter2"}`}}
	if diff := cmp.Diff(want, client.Calls()); diff != "" {
		t.Fatalf("requests mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_LoginSuccessLeavesDocumentUntouched(t *testing.T) {
	profile := submit.LoginProfile()
	handler, doc := newHandler(t, profile, reply(http.StatusOK, `{"status":200}`))

	result, err := handler.Submit(context.Background(), loginEvent())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Kind != submit.KindSuccess {
		t.Fatalf("expected success, got %s", result.Kind)
	}
	if got := invalidFields(doc, profile.Fields); len(got) != 0 {
		t.Fatalf("unexpected invalid fields %v", got)
	}
	for _, name := range profile.Fields {
		if text := feedback(doc, name); text != "" {
			t.Fatalf("feedback for %s = %q, want empty", name, text)
		}
	}
	if handler.Armed() {
		t.Fatalf("success must not arm the clear interaction")
	}
}

func TestSubmit_LoginGlobalErrorFansOut(t *testing.T) {
	profile := submit.LoginProfile()
	handler, doc := newHandler(t, profile,
		reply(http.StatusBadRequest, `{"status":400,"__all__":[{"message":"Invalid credentials"}]}`))

	result, err := handler.Submit(context.Background(), loginEvent())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Kind != submit.KindGlobalFailure {
		t.Fatalf("expected global failure, got %s", result.Kind)
	}

	want := "Invalid credentials." + envelope.NBSP
	for _, name := range profile.Fields {
		if got := feedback(doc, name); got != want {
			t.Fatalf("feedback for %s = %q, want %q", name, got, want)
		}
	}
	if diff := cmp.Diff(profile.Fields, invalidFields(doc, profile.Fields)); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(profile.Fields, handler.ArmedFields()); diff != "" {
		t.Fatalf("armed fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_GlobalFanOutRequiresLoneGlobalKey(t *testing.T) {
	profile := submit.LoginProfile()
	handler, doc := newHandler(t, profile, reply(http.StatusBadRequest,
		`{"status":400,"email":[{"message":"Email required"}],"__all__":[{"code":"invalid","message":"Invalid Credentials"}]}`))

	result, err := handler.Submit(context.Background(), loginEvent())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Kind != submit.KindFieldFailure {
		t.Fatalf("expected field failure, got %s", result.Kind)
	}
	if diff := cmp.Diff([]string{"email"}, result.Invalid); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
	if got := feedback(doc, "password"); got != "" {
		t.Fatalf("password feedback = %q, want empty", got)
	}
}

func TestSubmit_RegisterIgnoresGlobalErrors(t *testing.T) {
	profile := submit.RegisterProfile()
	handler, doc := newHandler(t, profile, reply(http.StatusBadRequest,
		`{"status":400,"__all__":[{"code":"registration_error","message":"An error occured during registration"}]}`))

	result, err := handler.Submit(context.Background(), registerEvent())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Kind != submit.KindFieldFailure {
		t.Fatalf("expected field failure, got %s", result.Kind)
	}
	if got := invalidFields(doc, profile.Fields); len(got) != 0 {
		t.Fatalf("unexpected invalid fields %v", got)
	}
	if handler.Armed() {
		t.Fatalf("nothing rendered, nothing should be armed")
	}
}

func TestSubmit_RegisterPerFieldErrors(t *testing.T) {
	profile := submit.RegisterProfile()
	handler, doc := newHandler(t, profile, reply(http.StatusBadRequest,
		`{"status":400,"email":[{"message":"Already taken"}],"password":[]}`))

	result, err := handler.Submit(context.Background(), registerEvent())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff([]string{"email"}, result.Invalid); diff != "" {
		t.Fatalf("result invalid mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"email"}, invalidFields(doc, profile.Fields)); diff != "" {
		t.Fatalf("document invalid mismatch (-want +got):\n%s", diff)
	}
	if got, want := feedback(doc, "email"), "Already taken."+envelope.NBSP; got != want {
		t.Fatalf("email feedback = %q, want %q", got, want)
	}
	for _, name := range []string{"first_name", "last_name", "password", "confirm_password"} {
		if got := feedback(doc, name); got != "" {
			t.Fatalf("%s feedback = %q, want empty", name, got)
		}
		if doc.Element(name).Listeners() != 0 {
			t.Fatalf("%s should not be armed", name)
		}
	}
	if doc.Element("email").Listeners() != 1 {
		t.Fatalf("email should hold exactly one clear listener")
	}
}

func TestSubmit_MessagesConcatenateSkippingNull(t *testing.T) {
	profile := submit.RegisterProfile()
	handler, doc := newHandler(t, profile, reply(http.StatusBadRequest,
		`{"status":400,"password":[{"message":"Too short"},{"message":null},{"message":"Must contain digit"}]}`))

	if _, err := handler.Submit(context.Background(), registerEvent()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	want := "Too short." + envelope.NBSP + "Must contain digit." + envelope.NBSP
	if got := feedback(doc, "password"); got != want {
		t.Fatalf("password feedback = %q, want %q", got, want)
	}
}

func TestSubmit_ClearInteractionIsOneShot(t *testing.T) {
	profile := submit.RegisterProfile()
	client := reply(http.StatusBadRequest,
		`{"status":400,"email":[{"message":"Already taken"}],"password":[{"message":"Password required"}]}`)
	handler, doc := newHandler(t, profile, client)

	if _, err := handler.Submit(context.Background(), registerEvent()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	doc.Element("password").Click()

	if got := invalidFields(doc, profile.Fields); len(got) != 0 {
		t.Fatalf("fields still invalid after clear: %v", got)
	}
	for _, name := range profile.Fields {
		if got := feedback(doc, name); got != "" {
			t.Fatalf("%s feedback = %q after clear", name, got)
		}
		if n := doc.Element(name).Listeners(); n != 0 {
			t.Fatalf("%s still holds %d listeners", name, n)
		}
	}
	if handler.Armed() {
		t.Fatalf("clear interaction should be consumed")
	}

	// Mark a field by hand: a second click must not clear it.
	doc.Element("email").AddClass(theming.DefaultInvalidClass)
	doc.Element("email").Click()
	if !doc.Element("email").HasClass(theming.DefaultInvalidClass) {
		t.Fatalf("consumed interaction fired again")
	}
	doc.Element("email").RemoveClass(theming.DefaultInvalidClass)

	if _, err := handler.Submit(context.Background(), registerEvent()); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if !handler.Armed() {
		t.Fatalf("next failure should re-arm")
	}
	if !handler.Acknowledge() {
		t.Fatalf("Acknowledge should report the armed interaction")
	}
	if got := invalidFields(doc, profile.Fields); len(got) != 0 {
		t.Fatalf("fields still invalid after acknowledge: %v", got)
	}
	if handler.Acknowledge() {
		t.Fatalf("Acknowledge fired twice")
	}
}

func TestSubmit_RepeatedFailuresKeepOneListenerPerField(t *testing.T) {
	profile := submit.LoginProfile()
	client := reply(http.StatusBadRequest, `{"status":400,"email":[{"message":"Email required"}]}`)
	handler, doc := newHandler(t, profile, client)

	if _, err := handler.Submit(context.Background(), loginEvent()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	client.body = `{"status":400,"password":[{"message":"Password Required"}]}`
	if _, err := handler.Submit(context.Background(), loginEvent()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	for _, name := range profile.Fields {
		if n := doc.Element(name).Listeners(); n != 1 {
			t.Fatalf("%s holds %d listeners, want 1", name, n)
		}
	}

	// email kept its marking from the first failure; clicking it clears all.
	doc.Element("email").Click()
	if got := invalidFields(doc, profile.Fields); len(got) != 0 {
		t.Fatalf("fields still invalid after clear: %v", got)
	}
}

func TestSubmit_FailureThenSuccess(t *testing.T) {
	profile := submit.LoginProfile()
	failure := `{"status":400,"__all__":[{"message":"Invalid credentials"}]}`

	t.Run("cleared before success", func(t *testing.T) {
		client := reply(http.StatusBadRequest, failure)
		handler, doc := newHandler(t, profile, client)

		if _, err := handler.Submit(context.Background(), loginEvent()); err != nil {
			t.Fatalf("submit: %v", err)
		}
		doc.Element("email").Click()

		client.status, client.body = http.StatusOK, `{"status":200}`
		for i := 0; i < 2; i++ {
			if _, err := handler.Submit(context.Background(), loginEvent()); err != nil {
				t.Fatalf("submit %d: %v", i, err)
			}
		}
		if got := invalidFields(doc, profile.Fields); len(got) != 0 {
			t.Fatalf("stray invalid markings %v", got)
		}
	})

	t.Run("success without clearing", func(t *testing.T) {
		client := reply(http.StatusBadRequest, failure)
		handler, doc := newHandler(t, profile, client)

		if _, err := handler.Submit(context.Background(), loginEvent()); err != nil {
			t.Fatalf("submit: %v", err)
		}

		client.status, client.body = http.StatusOK, `{"status":200}`
		for i := 0; i < 2; i++ {
			if _, err := handler.Submit(context.Background(), loginEvent()); err != nil {
				t.Fatalf("submit %d: %v", i, err)
			}
		}

		// Success only clears text; the markings wait for the clear interaction.
		if diff := cmp.Diff(profile.Fields, invalidFields(doc, profile.Fields)); diff != "" {
			t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
		}
		for _, name := range profile.Fields {
			if got := feedback(doc, name); got != "" {
				t.Fatalf("%s feedback = %q, want empty", name, got)
			}
		}
		doc.Element("password").Click()
		if got := invalidFields(doc, profile.Fields); len(got) != 0 {
			t.Fatalf("stray invalid markings after clear %v", got)
		}
	})
}

func TestSubmit_TransportErrors(t *testing.T) {
	profile := submit.LoginProfile()

	t.Run("silent by default", func(t *testing.T) {
		client := &stubClient{err: fmt.Errorf("%w: connection refused", transport.ErrTransport)}
		handler, doc := newHandler(t, profile, client)

		result, err := handler.Submit(context.Background(), loginEvent())
		if !errors.Is(err, transport.ErrTransport) {
			t.Fatalf("expected ErrTransport, got %v", err)
		}
		if result.Kind != submit.KindError {
			t.Fatalf("expected error kind, got %s", result.Kind)
		}
		if got := invalidFields(doc, profile.Fields); len(got) != 0 {
			t.Fatalf("unexpected invalid fields %v", got)
		}
	})

	t.Run("renders configured message", func(t *testing.T) {
		client := &stubClient{err: fmt.Errorf("%w: connection refused", transport.ErrTransport)}
		handler, doc := newHandler(t, profile, client, submit.WithTransportErrorMessage("Network error"))

		_, err := handler.Submit(context.Background(), loginEvent())
		if !errors.Is(err, transport.ErrTransport) {
			t.Fatalf("expected ErrTransport, got %v", err)
		}
		for _, name := range profile.Fields {
			if got, want := feedback(doc, name), "Network error."+envelope.NBSP; got != want {
				t.Fatalf("%s feedback = %q, want %q", name, got, want)
			}
		}
		if !handler.Armed() {
			t.Fatalf("rendered transport error should arm the clear interaction")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		handler, _ := newHandler(t, profile, reply(http.StatusBadGateway, `<html>bad gateway</html>`))
		_, err := handler.Submit(context.Background(), loginEvent())
		if !errors.Is(err, envelope.ErrMalformed) {
			t.Fatalf("expected ErrMalformed, got %v", err)
		}
	})
}

func TestSubmit_FallsBackToHTTPStatus(t *testing.T) {
	handler, _ := newHandler(t, submit.RegisterProfile(), reply(http.StatusCreated, `{"redirect":"/home"}`))

	result, err := handler.Submit(context.Background(), registerEvent())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Kind != submit.KindSuccess {
		t.Fatalf("expected success from HTTP status, got %s", result.Kind)
	}
}

func TestSubmit_QuotedStatusIsNotSuccess(t *testing.T) {
	profile := submit.LoginProfile()

	t.Run("field errors still render", func(t *testing.T) {
		handler, doc := newHandler(t, profile, reply(http.StatusBadRequest,
			`{"status":"200","email":[{"message":"Email required"}]}`))

		result, err := handler.Submit(context.Background(), loginEvent())
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if result.Kind != submit.KindFieldFailure {
			t.Fatalf("expected field failure, got %s", result.Kind)
		}
		if got, want := feedback(doc, "email"), "Email required."+envelope.NBSP; got != want {
			t.Fatalf("email feedback = %q, want %q", got, want)
		}
		if diff := cmp.Diff([]string{"email"}, invalidFields(doc, profile.Fields)); diff != "" {
			t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("HTTP 200 does not stand in", func(t *testing.T) {
		called := false
		handler, _ := newHandler(t, profile, reply(http.StatusOK, `{"status":"200"}`),
			submit.WithOnSuccess(func(envelope.Envelope) { called = true }))

		result, err := handler.Submit(context.Background(), loginEvent())
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		if result.Kind == submit.KindSuccess || called {
			t.Fatalf("quoted status treated as success (kind %s, hook called %v)", result.Kind, called)
		}
	})
}

func TestSubmit_EmptyGlobalListIsNotFannedOut(t *testing.T) {
	profile := submit.LoginProfile()
	handler, doc := newHandler(t, profile, reply(http.StatusBadRequest, `{"status":400,"__all__":[]}`))

	result, err := handler.Submit(context.Background(), loginEvent())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Kind != submit.KindFieldFailure {
		t.Fatalf("expected field failure, got %s", result.Kind)
	}
	if got := invalidFields(doc, profile.Fields); len(got) != 0 {
		t.Fatalf("unexpected invalid fields %v", got)
	}
	if handler.Armed() {
		t.Fatalf("nothing rendered, nothing to acknowledge")
	}
}

func TestSubmit_NullGlobalMessageMarksFieldsWithoutText(t *testing.T) {
	profile := submit.LoginProfile()
	handler, doc := newHandler(t, profile, reply(http.StatusBadRequest, `{"status":400,"__all__":[{"code":"invalid","message":null}]}`))

	result, err := handler.Submit(context.Background(), loginEvent())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Kind != submit.KindGlobalFailure {
		t.Fatalf("expected global failure, got %s", result.Kind)
	}
	for _, name := range profile.Fields {
		if got := feedback(doc, name); got != "" {
			t.Fatalf("%s feedback = %q, want empty", name, got)
		}
	}
	if diff := cmp.Diff(profile.Fields, invalidFields(doc, profile.Fields)); diff != "" {
		t.Fatalf("invalid fields mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmit_OnSuccessReceivesEnvelope(t *testing.T) {
	var redirect string
	handler, _ := newHandler(t, submit.LoginProfile(),
		reply(http.StatusOK, `{"status":200,"message":"User Logged In Successfully","redirect":"/home"}`),
		submit.WithOnSuccess(func(env envelope.Envelope) {
			redirect, _ = env.String("redirect")
		}))

	if _, err := handler.Submit(context.Background(), loginEvent()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if redirect != "/home" {
		t.Fatalf("redirect = %q, want /home", redirect)
	}
}

// gatedClient blocks the first request until release is closed.
type gatedClient struct {
	started chan struct{}
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (c *gatedClient) PostJSON(context.Context, string, []byte) (transport.Response, error) {
	c.mu.Lock()
	c.calls++
	call := c.calls
	c.mu.Unlock()

	if call == 1 {
		close(c.started)
		<-c.release
		return transport.Response{
			StatusCode: http.StatusBadRequest,
			Body:       []byte(`{"status":400,"__all__":[{"message":"Invalid credentials"}]}`),
		}, nil
	}
	return transport.Response{
		StatusCode: http.StatusBadRequest,
		Body:       []byte(`{"status":400,"email":[{"message":"Email required"}]}`),
	}, nil
}

func runOverlapping(t *testing.T, options ...submit.Option) (submit.Result, *memdom.Document) {
	t.Helper()
	client := &gatedClient{started: make(chan struct{}), release: make(chan struct{})}
	handler, doc := newHandler(t, submit.LoginProfile(), client, options...)

	done := make(chan submit.Result, 1)
	go func() {
		result, err := handler.Submit(context.Background(), loginEvent())
		if err != nil {
			t.Errorf("slow submit: %v", err)
		}
		done <- result
	}()

	<-client.started
	if _, err := handler.Submit(context.Background(), loginEvent()); err != nil {
		t.Fatalf("fast submit: %v", err)
	}
	close(client.release)
	return <-done, doc
}

func TestSubmit_LastResponseWinsByDefault(t *testing.T) {
	slow, doc := runOverlapping(t)
	if slow.Kind != submit.KindGlobalFailure {
		t.Fatalf("slow response kind = %s, want global failure", slow.Kind)
	}
	if got, want := feedback(doc, "password"), "Invalid credentials."+envelope.NBSP; got != want {
		t.Fatalf("password feedback = %q, want %q", got, want)
	}
}

func TestSubmit_DiscardStaleResponses(t *testing.T) {
	slow, doc := runOverlapping(t, submit.WithDiscardStale(true))
	if slow.Kind != submit.KindStale {
		t.Fatalf("slow response kind = %s, want stale", slow.Kind)
	}
	if slow.Sequence != 1 {
		t.Fatalf("slow response sequence = %d, want 1", slow.Sequence)
	}
	if got, want := feedback(doc, "email"), "Email required."+envelope.NBSP; got != want {
		t.Fatalf("email feedback = %q, want %q", got, want)
	}
	if got := feedback(doc, "password"); got != "" {
		t.Fatalf("password feedback = %q, want empty", got)
	}
}

func TestNew_InvalidClassFromTheme(t *testing.T) {
	selector, err := theming.NewManifestSelector("tailwind", "", &theme.Manifest{
		Name:   "tailwind",
		Tokens: map[string]string{theming.TokenInvalidClass: "border-red-500"},
	})
	if err != nil {
		t.Fatalf("selector: %v", err)
	}

	handler, doc := newHandler(t, submit.LoginProfile(),
		reply(http.StatusBadRequest, `{"status":400,"email":[{"message":"Email required"}]}`),
		submit.WithTheme(selector, "", ""))
	if handler.InvalidClass() != "border-red-500" {
		t.Fatalf("invalid class = %q", handler.InvalidClass())
	}

	if _, err := handler.Submit(context.Background(), loginEvent()); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !doc.Element("email").HasClass("border-red-500") {
		t.Fatalf("themed class not applied")
	}
	doc.Element("email").Click()
	if doc.Element("email").HasClass("border-red-500") {
		t.Fatalf("themed class not removed")
	}

	explicit, _ := newHandler(t, submit.LoginProfile(), reply(http.StatusOK, `{}`),
		submit.WithTheme(selector, "", ""), submit.WithInvalidClass("error"))
	if explicit.InvalidClass() != "error" {
		t.Fatalf("explicit class should win, got %q", explicit.InvalidClass())
	}

	if _, err := submit.New(submit.LoginProfile(), memdom.New(), reply(http.StatusOK, `{}`),
		submit.WithTheme(selector, "missing", "")); !errors.Is(err, theming.ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
}

func TestNew_RejectsBadConfiguration(t *testing.T) {
	client := reply(http.StatusOK, `{}`)
	if _, err := submit.New(submit.Profile{Name: "x"}, memdom.New(), client); err == nil {
		t.Fatalf("expected profile validation error")
	}
	if _, err := submit.New(submit.LoginProfile(), nil, client); !errors.Is(err, submit.ErrNoResolver) {
		t.Fatalf("expected ErrNoResolver, got %v", err)
	}
	if _, err := submit.New(submit.LoginProfile(), memdom.New(), nil); !errors.Is(err, submit.ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
}
