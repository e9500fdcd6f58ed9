package rtm

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/TWRT/rtm2todoist/internal/client"
	"github.com/TWRT/rtm2todoist/internal/models"
	"github.com/TWRT/rtm2todoist/internal/normalize"
)

const DefaultBaseURL = "https://api.rememberthemilk.com/services/rest/"

type RTMClient struct {
	baseUrl    string
	apiKey     string
	secret     string
	token      string
	httpClient *http.Client
}

func NewRTMClient(apiKey, secret, token string) *RTMClient {
	return &RTMClient{
		baseUrl:    DefaultBaseURL,
		apiKey:     apiKey,
		secret:     secret,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *RTMClient) WithBaseURL(baseUrl string) *RTMClient {
	if baseUrl != "" {
		c.baseUrl = baseUrl
	}
	return c
}

func (c *RTMClient) WithTimeout(timeout time.Duration) *RTMClient {
	if timeout > 0 {
		c.httpClient.Timeout = timeout
	}
	return c
}

// sign computes api_sig: md5 of the shared secret followed by every
// parameter name and value, sorted by name.
func (c *RTMClient) sign(params url.Values) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(c.secret)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(params.Get(k))
	}
	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

func (c *RTMClient) call(ctx context.Context, method string, args map[string]string, out any) error {
	params := url.Values{}
	params.Set("method", method)
	params.Set("api_key", c.apiKey)
	params.Set("auth_token", c.token)
	params.Set("format", "json")
	params.Set("v", "2")
	for k, v := range args {
		if v != "" {
			params.Set(k, v)
		}
	}
	params.Set("api_sig", c.sign(params))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseUrl+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("build request (rtm): %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s (rtm): %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body (rtm): %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s (rtm): status %d", method, resp.StatusCode)
	}

	var status RTMResponse[rspStatus]
	if err := json.Unmarshal(body, &status); err != nil {
		return fmt.Errorf("parse response (rtm): %w", err)
	}
	if status.Rsp.Stat != "ok" {
		if status.Rsp.Err != nil {
			return fmt.Errorf("RTM error %s: %s", status.Rsp.Err.Code, status.Rsp.Err.Msg)
		}
		return fmt.Errorf("%s (rtm): stat %q", method, status.Rsp.Stat)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse %s (rtm): %w", method, err)
	}
	return nil
}

func (c *RTMClient) GetTasks(ctx context.Context, q client.Query) ([]normalize.Record, error) {
	var resp RTMResponse[TasksRsp]
	err := c.call(ctx, "rtm.tasks.getList", map[string]string{
		"list_id": q.ListID,
		"filter":  strings.TrimSpace(q.Filter),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("get tasks (rtm): %w", err)
	}

	var records []normalize.Record
	for _, list := range resp.Rsp.Tasks.List {
		for _, series := range list.TaskSeries {
			task, ok := currentInstance(series.Task)
			if !ok {
				continue
			}
			if q.TaskID != "" && task.ID != q.TaskID {
				continue
			}
			records = append(records, buildRecord(list.ID, series, task))
		}
	}
	return records, nil
}

// currentInstance picks the last instance of a series that is neither
// completed nor deleted.
func currentInstance(instances []TaskInstance) (TaskInstance, bool) {
	for i := len(instances) - 1; i >= 0; i-- {
		t := instances[i]
		if t.Completed == "" && t.Deleted == "" {
			return t, true
		}
	}
	return TaskInstance{}, false
}

func buildRecord(listID string, series TaskSeries, task TaskInstance) normalize.Record {
	notes := make(normalize.NoteObjects, 0, len(series.Notes))
	for _, n := range series.Notes {
		notes = append(notes, n)
	}

	var recurrence normalize.RecurrenceValue
	if series.RRule != nil {
		recurrence = normalize.RuleDescriptor{Every: series.RRule.Every, Rule: series.RRule.Rule}
	}

	return normalize.Record{
		ListID:     listID,
		SeriesID:   series.ID,
		TaskID:     task.ID,
		Name:       series.Name,
		URL:        series.URL,
		Tags:       normalize.TagsList(series.Tags),
		Notes:      notes,
		Recurrence: recurrence,
		Due:        normalize.DueString(task.Due),
		HasDueTime: task.HasDueTime == "1",
		ParentID:   series.ParentTaskID,
		Priority:   task.Priority,
	}
}

func (c *RTMClient) GetLists(ctx context.Context) ([]models.SourceList, error) {
	var resp RTMResponse[ListsRsp]
	if err := c.call(ctx, "rtm.lists.getList", nil, &resp); err != nil {
		return nil, fmt.Errorf("get lists (rtm): %w", err)
	}

	lists := make([]models.SourceList, 0, len(resp.Rsp.Lists.List))
	for _, l := range resp.Rsp.Lists.List {
		if l.Deleted == "1" {
			continue
		}
		lists = append(lists, models.SourceList{
			ID:       l.ID,
			Name:     l.Name,
			Archived: l.Archived == "1",
			Smart:    l.Smart == "1",
		})
	}
	return lists, nil
}
