// Package ankiconnect is an HTTP client for the AnkiConnect add-on.
//
// AnkiConnect exposes a JSON-over-HTTP API on a running desktop instance
// (http://localhost:8765 by default, protocol version 6). Every call is a
// POST of {action, version, params} answered by {result, error}.
package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/Recite/core/anki"
	"github.com/FocuswithJustin/Recite/core/errors"
	"github.com/FocuswithJustin/Recite/core/render"
	"github.com/FocuswithJustin/Recite/internal/logging"
)

const (
	// DefaultURL is where a local AnkiConnect add-on listens.
	DefaultURL = "http://localhost:8765"

	// ProtocolVersion is the AnkiConnect API version this client speaks.
	ProtocolVersion = 6

	defaultTimeout = 30 * time.Second
)

// Client talks to one AnkiConnect endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the given endpoint URL. An empty url means
// DefaultURL.
func NewClient(url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// request is the AnkiConnect call envelope.
type request struct {
	Action  string      `json:"action"`
	Version int         `json:"version"`
	Params  interface{} `json:"params,omitempty"`
}

// response is the AnkiConnect reply envelope.
type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke performs one round trip and unmarshals the result into out when
// out is non-nil.
func (c *Client) invoke(ctx context.Context, action string, params, out interface{}) error {
	requestID := uuid.NewString()
	start := time.Now()
	err := c.doInvoke(ctx, action, params, out)
	logging.ConnectRequest(action, requestID, time.Since(start), err)
	return err
}

func (c *Client) doInvoke(ctx context.Context, action string, params, out interface{}) error {
	body, err := json.Marshal(request{
		Action:  action,
		Version: ProtocolVersion,
		Params:  params,
	})
	if err != nil {
		return errors.Wrapf(err, "encoding %s request", action)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrapf(err, "building %s request", action)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "calling %s", action)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", action, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading %s response", action)
	}

	var envelope response
	if err := json.Unmarshal(data, &envelope); err != nil {
		return errors.NewParse("json", c.url, err.Error())
	}
	if envelope.Error != nil && *envelope.Error != "" {
		return fmt.Errorf("%s: %s", action, *envelope.Error)
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Result, out); err != nil {
			return errors.NewParse("json", c.url, err.Error())
		}
	}
	return nil
}

// Version pings the endpoint and returns its protocol version.
func (c *Client) Version(ctx context.Context) (int, error) {
	var version int
	if err := c.invoke(ctx, "version", nil, &version); err != nil {
		return 0, err
	}
	return version, nil
}

// CreateDeck ensures the named deck exists. Creating an existing deck is a
// no-op on the AnkiConnect side.
func (c *Client) CreateDeck(ctx context.Context, name string) error {
	params := map[string]string{"deck": name}
	return c.invoke(ctx, "createDeck", params, nil)
}

// notePayload is the wire shape of one note for addNote/addNotes.
type notePayload struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
	Options   noteOptions       `json:"options"`
}

type noteOptions struct {
	AllowDuplicate bool `json:"allowDuplicate"`
}

func buildPayload(deckName string, note anki.Note) notePayload {
	fields := make(map[string]string, len(render.FieldNames))
	for i, name := range render.FieldNames {
		if i < len(note.Fields) {
			fields[name] = note.Fields[i]
		}
	}
	tags := note.Tags
	if tags == nil {
		tags = []string{}
	}
	return notePayload{
		DeckName:  deckName,
		ModelName: anki.ModelName,
		Fields:    fields,
		Tags:      tags,
	}
}

// AddNote adds a single note to the named deck. Duplicate notes are rejected
// by the endpoint and reported as an error.
func (c *Client) AddNote(ctx context.Context, deckName string, note anki.Note) (int64, error) {
	params := map[string]interface{}{"note": buildPayload(deckName, note)}
	var id int64
	if err := c.invoke(ctx, "addNote", params, &id); err != nil {
		return 0, err
	}
	return id, nil
}

// AddNotes adds all notes to the named deck in one call. The returned slice
// is position-aligned with the input; a nil entry marks a note the endpoint
// refused (usually a duplicate).
func (c *Client) AddNotes(ctx context.Context, deckName string, notes []anki.Note) ([]*int64, error) {
	payloads := make([]notePayload, len(notes))
	for i, n := range notes {
		payloads[i] = buildPayload(deckName, n)
	}
	params := map[string]interface{}{"notes": payloads}
	var ids []*int64
	if err := c.invoke(ctx, "addNotes", params, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// PushDecks creates each deck and adds its notes, returning the number of
// notes accepted. Notes the endpoint refuses are counted as skipped, not
// failed.
func (c *Client) PushDecks(ctx context.Context, decks []*anki.Deck) (added, skipped int, err error) {
	for _, deck := range decks {
		if err := c.CreateDeck(ctx, deck.Name); err != nil {
			return added, skipped, errors.Wrapf(err, "creating deck %s", deck.Name)
		}
		ids, err := c.AddNotes(ctx, deck.Name, deck.Notes)
		if err != nil {
			return added, skipped, errors.Wrapf(err, "adding notes to %s", deck.Name)
		}
		for _, id := range ids {
			if id == nil {
				skipped++
			} else {
				added++
			}
		}
	}
	return added, skipped, nil
}
