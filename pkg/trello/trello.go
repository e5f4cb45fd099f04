// Package trello is a minimal client for the parts of Trello's REST API
// that shopr touches: board cards, checklists, checklist items, labels and
// board lists. Authentication is the key+token query-parameter scheme.
package trello

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/asmundg/shopr/pkg/whttp"
)

const defaultRoot = "https://api.trello.com"

type Client struct {
	key   string
	token string
	root  string
	http  *retryablehttp.Client
}

// NewClient returns a client for api.trello.com using the given credentials.
func NewClient(key, token string) *Client {
	return &Client{key: key, token: token, root: defaultRoot}
}

// NewClientWithRoot targets an alternate API root. Used by tests.
func NewClientWithRoot(key, token, root string) *Client {
	return &Client{key: key, token: token, root: root}
}

func (c *Client) auth() url.Values {
	return url.Values{"key": {c.key}, "token": {c.token}}
}

// request sends one API call and returns the raw response body.
func (c *Client) request(ctx context.Context, method, path string, body url.Values) (string, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: method,
		URL:    c.root + path,
		Params: c.auth(),
		Body:   body,
	}, c.http)
	if err != nil {
		return "", fmt.Errorf("trello %s %s: %w", method, path, err)
	}
	if res.StatusCode != 200 {
		return "", fmt.Errorf("trello %s %s: unexpected status %d", method, path, res.StatusCode)
	}
	return res.BodyString, nil
}

func parseLabel(g gjson.Result) Label {
	return Label{
		ID:   g.Get("id").Str,
		Name: g.Get("name").Str,
	}
}

func parseCard(g gjson.Result) Card {
	card := Card{
		ID:     g.Get("id").Str,
		Name:   g.Get("name").Str,
		IDList: g.Get("idList").Str,
	}
	for _, id := range g.Get("idChecklists").Array() {
		card.IDChecklists = append(card.IDChecklists, id.Str)
	}
	for _, l := range g.Get("labels").Array() {
		card.Labels = append(card.Labels, parseLabel(l))
	}
	return card
}

func parseChecklistItem(g gjson.Result) ChecklistItem {
	return ChecklistItem{
		ID:          g.Get("id").Str,
		IDChecklist: g.Get("idChecklist").Str,
		Name:        g.Get("name").Str,
		Pos:         int(g.Get("pos").Int()),
		State:       g.Get("state").Str,
	}
}

func parseChecklist(g gjson.Result) Checklist {
	cl := Checklist{
		ID:     g.Get("id").Str,
		Name:   g.Get("name").Str,
		IDCard: g.Get("idCard").Str,
	}
	for _, item := range g.Get("checkItems").Array() {
		cl.CheckItems = append(cl.CheckItems, parseChecklistItem(item))
	}
	return cl
}

// GetBoardCards returns all cards on a board.
func (c *Client) GetBoardCards(ctx context.Context, boardID string) ([]Card, error) {
	body, err := c.request(ctx, "GET", "/1/boards/"+boardID+"/cards", nil)
	if err != nil {
		return nil, err
	}
	var cards []Card
	for _, g := range gjson.Parse(body).Array() {
		cards = append(cards, parseCard(g))
	}
	return cards, nil
}

// GetListCards returns the cards in one list.
func (c *Client) GetListCards(ctx context.Context, listID string) ([]Card, error) {
	body, err := c.request(ctx, "GET", "/1/lists/"+listID+"/cards", nil)
	if err != nil {
		return nil, err
	}
	var cards []Card
	for _, g := range gjson.Parse(body).Array() {
		cards = append(cards, parseCard(g))
	}
	return cards, nil
}

// GetCard returns a single card by id.
func (c *Client) GetCard(ctx context.Context, cardID string) (Card, error) {
	body, err := c.request(ctx, "GET", "/1/cards/"+cardID, nil)
	if err != nil {
		return Card{}, err
	}
	return parseCard(gjson.Parse(body)), nil
}

// GetChecklist returns a checklist with its items.
func (c *Client) GetChecklist(ctx context.Context, checklistID string) (Checklist, error) {
	body, err := c.request(ctx, "GET", "/1/checklists/"+checklistID, nil)
	if err != nil {
		return Checklist{}, err
	}
	return parseChecklist(gjson.Parse(body)), nil
}

// UpdateChecklistItem writes an item's name, position and state back.
func (c *Client) UpdateChecklistItem(ctx context.Context, cardID string, item ChecklistItem) error {
	path := "/1/cards/" + cardID + "/checklist/" + item.IDChecklist + "/checkItem/" + item.ID
	_, err := c.request(ctx, "PUT", path, url.Values{
		"name":  {item.Name},
		"pos":   {strconv.Itoa(item.Pos)},
		"state": {item.State},
	})
	return err
}

// AddChecklistItem appends a new item to a checklist.
func (c *Client) AddChecklistItem(ctx context.Context, checklistID, name string) (ChecklistItem, error) {
	body, err := c.request(ctx, "POST", "/1/checklists/"+checklistID+"/checkItems", url.Values{
		"name": {name},
	})
	if err != nil {
		return ChecklistItem{}, err
	}
	return parseChecklistItem(gjson.Parse(body)), nil
}

// CreateChecklist creates a new checklist on a card.
func (c *Client) CreateChecklist(ctx context.Context, cardID, name string) (Checklist, error) {
	body, err := c.request(ctx, "POST", "/1/cards/"+cardID+"/checklists", url.Values{
		"name": {name},
	})
	if err != nil {
		return Checklist{}, err
	}
	return parseChecklist(gjson.Parse(body)), nil
}

// MoveCardToList moves a card to another list.
func (c *Client) MoveCardToList(ctx context.Context, cardID, listID string) error {
	_, err := c.request(ctx, "PUT", "/1/cards/"+cardID, url.Values{
		"idList": {listID},
	})
	return err
}

// RemoveLabel detaches a label from a card.
func (c *Client) RemoveLabel(ctx context.Context, cardID, labelID string) error {
	_, err := c.request(ctx, "DELETE", "/1/cards/"+cardID+"/idLabels/"+labelID, nil)
	return err
}

// GetBoardLists returns all lists on a board.
func (c *Client) GetBoardLists(ctx context.Context, boardID string) ([]BoardList, error) {
	body, err := c.request(ctx, "GET", "/1/boards/"+boardID+"/lists", nil)
	if err != nil {
		return nil, err
	}
	var lists []BoardList
	for _, g := range gjson.Parse(body).Array() {
		lists = append(lists, BoardList{ID: g.Get("id").Str, Name: g.Get("name").Str})
	}
	return lists, nil
}
