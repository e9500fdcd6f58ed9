package rtm

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/TWRT/rtm2todoist/internal/client"
	"github.com/TWRT/rtm2todoist/internal/normalize"
)

const tasksFixture = `{"rsp":{"stat":"ok","tasks":{"rev":"r1","list":[
 {"id":"L1","taskseries":[
  {"id":"S1","name":"Plan trip","url":"https://example.com","parent_task_id":"",
   "tags":{"tag":["travel","2024"]},
   "notes":{"note":[{"id":"n1","title":"","$t":"book early"}]},
   "rrule":{"every":"1","$t":"FREQ=WEEKLY;INTERVAL=1;BYDAY=MO"},
   "task":[
    {"id":"T0","due":"2024-05-01T00:00:00Z","has_due_time":"0","completed":"2024-05-02T00:00:00Z","deleted":"","priority":"N"},
    {"id":"T1","due":"2024-05-06T00:00:00Z","has_due_time":"0","completed":"","deleted":"","priority":"1"}
   ]},
  {"id":"S2","name":"Book hotel","parent_task_id":"1",
   "tags":[],"notes":[],
   "task":[{"id":"T2"}]}
 ]},
 {"id":"L2","taskseries":[
  {"id":"S3","name":"Call mom","tags":{"tag":"family"},"notes":{"note":{"id":"n2","$t":"sunday"}},
   "task":[{"id":"T3","due":"","has_due_time":"0","completed":"","deleted":"","priority":"N"}]}
 ]}
]}}}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *RTMClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewRTMClient("key", "secret", "token").WithBaseURL(srv.URL + "/")
}

func TestSign_SortsParametersAfterSecret(t *testing.T) {
	c := NewRTMClient("key", "BANANAS", "token")
	params := url.Values{}
	params.Set("yxz", "foo")
	params.Set("feg", "bar")
	params.Set("abc", "baz")

	sum := md5.Sum([]byte("BANANASabcbazfegbaryxzfoo"))
	want := hex.EncodeToString(sum[:])

	if got := c.sign(params); got != want {
		t.Errorf("sign() = %s, want %s", got, want)
	}
}

func TestCall_SendsSignedRequest(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		w.Write([]byte(`{"rsp":{"stat":"ok","lists":{"list":[]}}}`))
	})

	if _, err := c.GetLists(context.Background()); err != nil {
		t.Fatalf("GetLists() error = %v", err)
	}

	for key, want := range map[string]string{
		"method":     "rtm.lists.getList",
		"api_key":    "key",
		"auth_token": "token",
		"format":     "json",
		"v":          "2",
	} {
		if got.Get(key) != want {
			t.Errorf("%s = %q, want %q", key, got.Get(key), want)
		}
	}

	sig := got.Get("api_sig")
	got.Del("api_sig")
	if want := c.sign(got); sig != want {
		t.Errorf("api_sig = %s, want %s", sig, want)
	}
}

func TestGetTasks_MapsCurrentInstances(t *testing.T) {
	var filter, listID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		filter = r.URL.Query().Get("filter")
		listID = r.URL.Query().Get("list_id")
		w.Write([]byte(tasksFixture))
	})

	records, err := c.GetTasks(context.Background(), client.Query{Filter: " status:incomplete "})
	if err != nil {
		t.Fatalf("GetTasks() error = %v", err)
	}
	if filter != "status:incomplete" {
		t.Errorf("filter = %q, want status:incomplete", filter)
	}
	if listID != "" {
		t.Errorf("list_id = %q, want unset", listID)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	first := records[0]
	if first.TaskID != "T1" || first.ListID != "L1" || first.SeriesID != "S1" {
		t.Errorf("first record ids = %s/%s/%s, want T1/L1/S1", first.TaskID, first.ListID, first.SeriesID)
	}
	if first.Priority != "1" {
		t.Errorf("priority = %q, want 1", first.Priority)
	}
	if !reflect.DeepEqual(first.Tags, normalize.TagsList{"travel", "2024"}) {
		t.Errorf("tags = %#v", first.Tags)
	}
	if got := normalize.Notes(first.Notes); !reflect.DeepEqual(got, []string{"book early"}) {
		t.Errorf("notes = %v", got)
	}
	rule, ok := first.Recurrence.(normalize.RuleDescriptor)
	if !ok || rule.Every != "1" || rule.Rule != "FREQ=WEEKLY;INTERVAL=1;BYDAY=MO" {
		t.Errorf("recurrence = %#v", first.Recurrence)
	}

	second := records[1]
	if second.ParentID != "1" || second.Recurrence != nil {
		t.Errorf("second record = %+v", second)
	}
	if got := normalize.Notes(second.Notes); len(got) != 0 {
		t.Errorf("second notes = %v, want none", got)
	}

	third := records[2]
	if !reflect.DeepEqual(third.Tags, normalize.TagsList{"family"}) {
		t.Errorf("single tag = %#v", third.Tags)
	}
	if got := normalize.Notes(third.Notes); !reflect.DeepEqual(got, []string{"sunday"}) {
		t.Errorf("single note = %v", got)
	}
}

func TestGetTasks_TaskIDNarrowsResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(tasksFixture))
	})

	records, err := c.GetTasks(context.Background(), client.Query{TaskID: "T3"})
	if err != nil {
		t.Fatalf("GetTasks() error = %v", err)
	}
	if len(records) != 1 || records[0].TaskID != "T3" {
		t.Errorf("records = %+v, want only T3", records)
	}
}

func TestGetTasks_FailStatus(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rsp":{"stat":"fail","err":{"code":"98","msg":"Login failed / Invalid auth token"}}}`))
	})

	_, err := c.GetTasks(context.Background(), client.Query{})
	if err == nil {
		t.Fatal("GetTasks() error = nil, want failure")
	}
	if !strings.Contains(err.Error(), "98") || !strings.Contains(err.Error(), "Invalid auth token") {
		t.Errorf("error = %v, want code and message", err)
	}
}

func TestGetTasks_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	if _, err := c.GetTasks(context.Background(), client.Query{}); err == nil {
		t.Fatal("GetTasks() error = nil, want failure")
	}
}

func TestGetLists_SkipsDeleted(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rsp":{"stat":"ok","lists":{"list":[
			{"id":"1","name":"Inbox","deleted":"0","archived":"0","smart":"0"},
			{"id":"2","name":"Old","deleted":"1","archived":"0","smart":"0"},
			{"id":"3","name":"Today","deleted":"0","archived":"1","smart":"1"}
		]}}}`))
	})

	lists, err := c.GetLists(context.Background())
	if err != nil {
		t.Fatalf("GetLists() error = %v", err)
	}
	if len(lists) != 2 {
		t.Fatalf("got %d lists, want 2", len(lists))
	}
	if lists[1].ID != "3" || !lists[1].Archived || !lists[1].Smart {
		t.Errorf("lists[1] = %+v", lists[1])
	}
}

func TestTags_UnmarshalShapes(t *testing.T) {
	tests := []struct {
		in   string
		want Tags
	}{
		{`[]`, nil},
		{`{"tag":"a"}`, Tags{"a"}},
		{`{"tag":["a","b"]}`, Tags{"a", "b"}},
		{`["x"]`, Tags{"x"}},
	}
	for _, tt := range tests {
		var got Tags
		if err := json.Unmarshal([]byte(tt.in), &got); err != nil {
			t.Errorf("Unmarshal(%s) error = %v", tt.in, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Unmarshal(%s) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
