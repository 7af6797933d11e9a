package cmd

import (
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jsphweid/dormbell/frame"
	"github.com/jsphweid/dormbell/model"
	"github.com/jsphweid/dormbell/pitch"
	"github.com/jsphweid/dormbell/score"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var addr string

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the encoder over HTTP",
	Long: `Serves POST /encode, which turns JSON songs into a frame, and
GET /pitch/{token}, which resolves a single pitch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("listening", "addr", addr)
		return http.ListenAndServe(addr, cors.Default().Handler(Router()))
	},
}

func Router() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/encode", HandleEncode).Methods("POST")
	router.HandleFunc("/pitch/{token}", HandlePitch).Methods("GET")
	return router
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("writing response", "err", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger.Debug("request failed", "status", status, "err", err)
	writeJSON(w, status, model.ErrorResponse{Error: err.Error()})
}

func HandleEncode(w http.ResponseWriter, r *http.Request) {
	var input model.EncodeRequestBody
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	layout := cfg.FrameLayout()
	if input.Layout != "" {
		l, err := frame.ParseLayout(input.Layout)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		layout = l
	}
	limit := cfg.MemoryLimit
	if input.Limit > 0 {
		limit = input.Limit
	}

	songs, err := score.BuildAll(input.Songs)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	f, resolved, err := encodeSongs(songs, layout, limit)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	writeJSON(w, http.StatusOK, model.EncodeResponse{
		Layout:  f.Layout.String(),
		Hex:     hex.EncodeToString(f.Bytes()),
		Size:    f.Len(),
		Limit:   f.Limit,
		Dropped: f.Dropped,
		Songs:   summarize(resolved),
	})
}

func HandlePitch(w http.ResponseWriter, r *http.Request) {
	token := mux.Vars(r)["token"]
	p, err := pitch.Parse(token)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	ticks, err := pitch.Resolve(p, cfg.ClockFrequency)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	res := model.PitchResponse{Pitch: p.String(), Ticks: ticks}
	if !p.Rest {
		key, err := pitch.Key(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		res.Frequency = pitch.Frequency(key)
	}
	writeJSON(w, http.StatusOK, res)
}
