package main

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"betterrest/internal/bedtime"
	"betterrest/internal/form"
)

// Web form defaults; URL query only includes params that differ from these.
const (
	webDefaultWake   = "07:00"
	webDefaultSleep  = "8"
	webDefaultCoffee = "1"
)

// Stepper and dismiss buttons post one of these as "action". Any other
// action, including none, calculates.
const (
	actionSleepMore  = "sleep-more"
	actionSleepLess  = "sleep-less"
	actionCoffeeMore = "coffee-more"
	actionCoffeeLess = "coffee-less"
	actionDismiss    = "dismiss"
)

type PageData struct {
	Wake   string
	Sleep  string
	Coffee string

	SleepLabel  string
	CoffeeLabel string

	MinSleep  float64
	MaxSleep  float64
	SleepStep float64
	MinCoffee int
	MaxCoffee int

	Night   bool
	Version string

	Error string
	Alert *form.Alert
	OK    bool

	// DayNote is set when the bedtime falls on the previous day.
	DayNote string

	// Share text: meta description when Alert is set (for link previews).
	ShareDescription string
}

// BedtimeJSON is the response of /api/bedtime.
type BedtimeJSON struct {
	OK      bool    `json:"ok"`
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Bedtime string  `json:"bedtime,omitempty"`
	Wake    string  `json:"wake"`
	Sleep   float64 `json:"sleep"`
	Coffee  int     `json:"coffee"`
}

var pageTpl = template.Must(template.New("page").Parse(pageHTML))

func serveWeb(port int, a *app) error {
	return http.ListenAndServe(fmt.Sprintf(":%d", port), newMux(a))
}

func newMux(a *app) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		q := r.URL.Query()
		data := a.newPage(
			orDefault(q.Get("wake"), webDefaultWake),
			orDefault(q.Get("sleep"), webDefaultSleep),
			orDefault(q.Get("coffee"), webDefaultCoffee),
		)

		// A URL with a wake time shows the result of that calculation,
		// unless it only carries edited form values.
		if q.Has("wake") && !q.Has("edit") {
			in, err := parseInputs(data.Wake, data.Sleep, data.Coffee)
			if err != nil {
				data.Error = err.Error()
			} else {
				st, res := a.preview(in.hour, in.minute, in.sleep, in.coffee)
				data.fill(st, res)
			}
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_ = pageTpl.Execute(w, data)
	})

	mux.HandleFunc("/calc", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		wake := strings.TrimSpace(r.FormValue("wake"))
		sleep := strings.TrimSpace(r.FormValue("sleep"))
		coffee := strings.TrimSpace(r.FormValue("coffee"))

		data := a.newPage(wake, sleep, coffee)

		if wake == "" {
			data.Error = "wake-up time is required (HH:MM)"
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_ = pageTpl.Execute(w, data)
			return
		}
		in, err := parseInputs(wake, orDefault(sleep, webDefaultSleep), orDefault(coffee, webDefaultCoffee))
		if err != nil {
			data.Error = err.Error()
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_ = pageTpl.Execute(w, data)
			return
		}

		st := a.newState(in.hour, in.minute, in.sleep, in.coffee)
		if !applyAction(st, r.FormValue("action")) {
			http.Redirect(w, r, buildEditURL(inputsOf(st)), http.StatusFound)
			return
		}

		a.submit(st)
		// Redirect to GET with the clamped values so the URL reflects the calculation.
		http.Redirect(w, r, buildCalcURL(inputsOf(st)), http.StatusFound)
	})

	mux.HandleFunc("/api/bedtime", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		in, err := parseInputs(
			orDefault(q.Get("wake"), webDefaultWake),
			orDefault(q.Get("sleep"), webDefaultSleep),
			orDefault(q.Get("coffee"), webDefaultCoffee),
		)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		st, res := a.calculate(in.hour, in.minute, in.sleep, in.coffee)
		out := BedtimeJSON{
			OK:      res.OK(),
			Title:   st.Alert.Title,
			Message: st.Alert.Message,
			Wake:    bedtime.FormatClock(st.WakeUp()),
			Sleep:   st.SleepAmount(),
			Coffee:  st.CoffeeAmount(),
		}
		if res.OK() {
			out.Bedtime = bedtime.FormatClock(res.Bedtime)
		}

		w.Header().Set("Content-Type", "application/json")
		if !res.OK() {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	return mux
}

func (a *app) newPage(wake, sleep, coffee string) PageData {
	return PageData{
		Wake:      wake,
		Sleep:     sleep,
		Coffee:    coffee,
		MinSleep:  form.MinSleep,
		MaxSleep:  form.MaxSleep,
		SleepStep: form.SleepStep,
		MinCoffee: form.MinCoffee,
		MaxCoffee: form.MaxCoffee,
		Night:     form.IsNightTime(a.now()),
		Version:   appVersion,
	}
}

// fill copies the clamped inputs and the alert from a finished calculation.
func (d *PageData) fill(st *form.State, res form.Result) {
	d.Wake = bedtime.FormatClock(st.WakeUp())
	d.Sleep = formatFloat(st.SleepAmount())
	d.Coffee = strconv.Itoa(st.CoffeeAmount())
	d.SleepLabel = st.SleepLabel()
	d.CoffeeLabel = st.CoffeeLabel()

	alert := st.Alert
	d.Alert = &alert
	d.OK = res.OK()
	if res.OK() {
		if bedtime.DayOffset(res.Wake, res.Bedtime) < 0 {
			d.DayNote = "the evening before"
		}
		d.ShareDescription = fmt.Sprintf("Wake %s, %s of sleep, %s of coffee: go to bed at %s.",
			d.Wake, d.SleepLabel, d.CoffeeLabel, alert.Message)
	}
}

type inputs struct {
	hour, minute int
	sleep        float64
	coffee       int
}

func parseInputs(wake, sleep, coffee string) (inputs, error) {
	h, m, err := parseHHMM(wake)
	if err != nil {
		return inputs{}, err
	}
	s, err := parseFloat(sleep)
	if err != nil {
		return inputs{}, fmt.Errorf("sleep must be a number of hours (e.g. 8, 7.5)")
	}
	c, err := strconv.Atoi(strings.TrimSpace(coffee))
	if err != nil {
		return inputs{}, fmt.Errorf("coffee must be a whole number of cups")
	}
	return inputs{
		hour:   h,
		minute: m,
		sleep:  form.ClampSleep(s),
		coffee: form.ClampCoffee(c),
	}, nil
}

func inputsOf(st *form.State) inputs {
	return inputs{
		hour:   st.WakeUp().Hour(),
		minute: st.WakeUp().Minute(),
		sleep:  st.SleepAmount(),
		coffee: st.CoffeeAmount(),
	}
}

// applyAction runs a form button on st and reports whether the form should
// be calculated.
func applyAction(st *form.State, action string) bool {
	switch action {
	case actionSleepMore:
		st.IncrementSleep()
	case actionSleepLess:
		st.DecrementSleep()
	case actionCoffeeMore:
		st.IncrementCoffee()
	case actionCoffeeLess:
		st.DecrementCoffee()
	case actionDismiss:
		st.Dismiss()
	default:
		return true
	}
	return false
}

// buildCalcURL returns "/?wake=..." and only adds other params when not default.
func buildCalcURL(in inputs) string {
	return "/?" + formValues(in).Encode()
}

// buildEditURL is buildCalcURL for a form that was edited but not calculated.
func buildEditURL(in inputs) string {
	v := formValues(in)
	v.Set("edit", "1")
	return "/?" + v.Encode()
}

func formValues(in inputs) url.Values {
	v := url.Values{}
	v.Set("wake", fmt.Sprintf("%02d:%02d", in.hour, in.minute))
	if s := formatFloat(in.sleep); s != webDefaultSleep {
		v.Set("sleep", s)
	}
	if c := strconv.Itoa(in.coffee); c != webDefaultCoffee {
		v.Set("coffee", c)
	}
	return v
}

func orDefault(val, def string) string {
	if strings.TrimSpace(val) == "" {
		return def
	}
	return strings.TrimSpace(val)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
