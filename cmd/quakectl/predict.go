package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/mr1hm/go-quake-magnitude/internal/api"
	"github.com/mr1hm/go-quake-magnitude/internal/logging"
	"github.com/mr1hm/go-quake-magnitude/internal/models"
	"github.com/mr1hm/go-quake-magnitude/internal/modelsource"
	"github.com/mr1hm/go-quake-magnitude/internal/prediction"
)

// errPredictionFailed is returned after the failure has already been printed.
var errPredictionFailed = errors.New("prediction failed")

type predictOptions struct {
	fields    models.Fields
	modelPath string
	modelURL  string
	timeout   time.Duration
	asJSON    bool
}

func newPredictCmd() *cobra.Command {
	opts := predictOptions{fields: models.DefaultFields()}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict the magnitude of one earthquake",
		Long:  "Encodes the given values, runs the model once and prints the predicted magnitude with its severity.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&opts.fields.Latitude, "latitude", opts.fields.Latitude, "geographic latitude (-90 to 90 degrees)")
	f.Float64Var(&opts.fields.Longitude, "longitude", opts.fields.Longitude, "geographic longitude (-180 to 180 degrees)")
	f.Float64Var(&opts.fields.Depth, "depth", opts.fields.Depth, "depth of the earthquake in kilometers")
	f.StringVar(&opts.fields.MagType, "mag-type", opts.fields.MagType, "magnitude type (ml, md, mw, mb, ms)")
	f.IntVar(&opts.fields.MagNst, "stations", opts.fields.MagNst, "number of stations used to determine magnitude")
	f.StringVar(&opts.modelPath, "model", "./model.json", "model artifact (.json, .yaml)")
	f.StringVar(&opts.modelURL, "model-url", "", "inference server URL; overrides --model")
	f.DurationVar(&opts.timeout, "timeout", 15*time.Second, "inference server timeout")
	f.BoolVar(&opts.asJSON, "json", false, "print the result as JSON")

	return cmd
}

func runPredict(cmd *cobra.Command, opts predictOptions) error {
	ctx := cmd.Context()
	logger := logging.New(cmd.ErrOrStderr(), "warn", "text")

	src, err := modelsource.Open(ctx, modelsource.Options{
		Path:    opts.modelPath,
		URL:     opts.modelURL,
		Timeout: opts.timeout,
	}, logger)
	if err != nil {
		return err
	}

	svc := prediction.NewService(src.Model,
		prediction.WithLogger(logger),
		prediction.WithModelName(src.Name),
	)
	out := svc.Predict(ctx, opts.fields)

	w := cmd.OutOrStdout()
	if opts.asJSON {
		if err := printJSON(w, out); err != nil {
			return err
		}
	} else {
		printOutcome(w, out)
	}

	if !out.OK() {
		return errPredictionFailed
	}
	return nil
}

func printOutcome(w io.Writer, out models.Outcome) {
	if f := out.Failure; f != nil {
		fmt.Fprintf(w, "❌ %s\n%s\n", f.Message, f.Hint)
		return
	}

	r := out.Result
	fmt.Fprintln(w, "✅ Prediction Complete!")
	fmt.Fprintln(w, r.Headline())
	fmt.Fprintln(w, r.Message)
}

func printJSON(w io.Writer, out models.Outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if out.Failure != nil {
		return enc.Encode(api.NewErrorResponse(out.Failure))
	}
	return enc.Encode(api.NewPredictionResponse(out))
}
