package web

import (
	"html/template"
	"net/http"

	"winedash/internal/features"
)

type sliderData struct {
	Name  string
	Label string
	Min   float64
	Max   float64
	Step  float64
	Value float64
}

type pageData struct {
	Sliders   []sliderData
	TypeWhite int
}

func (s *Server) buildPageData() pageData {
	set := s.ctrl.Features()

	var sliders []sliderData
	for _, name := range features.Names() {
		if name == features.TypeWhite {
			continue
		}
		r, _ := features.RangeOf(name)
		v, _ := set.Value(name)
		sliders = append(sliders, sliderData{
			Name:  name,
			Label: features.Label(name),
			Min:   r.Min,
			Max:   r.Max,
			Step:  r.Step,
			Value: v,
		})
	}

	return pageData{Sliders: sliders, TypeWhite: set.TypeWhite}
}

// handleIndex serves the dashboard HTML page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	t, err := template.New("dashboard").Parse(pageTemplate)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	t.Execute(w, s.buildPageData())
}

const pageTemplate = `
<!DOCTYPE html>
<html>
<head>
    <title>Wine Quality Dashboard</title>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <style>
        body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; margin: 0; padding: 20px; background-color: #f5f5f5; }
        .container { max-width: 720px; margin: 0 auto; }
        .header { background: linear-gradient(135deg, #7b2940 0%, #40122b 100%); color: white; padding: 20px; border-radius: 10px; margin-bottom: 20px; }
        .header h1 { margin: 0; font-size: 2em; text-align: center; }
        .card { background: white; border-radius: 10px; padding: 20px; box-shadow: 0 4px 6px rgba(0,0,0,0.1); margin-bottom: 20px; }
        .card h3 { margin-top: 0; color: #333; border-bottom: 2px solid #eee; padding-bottom: 10px; }
        .feature { padding: 10px 0; border-bottom: 1px solid #eee; }
        .feature:last-child { border-bottom: none; }
        .feature-row { display: flex; justify-content: space-between; align-items: center; margin-bottom: 4px; }
        .feature-label { font-weight: 500; color: #666; }
        .feature-value { font-weight: bold; color: #333; }
        .feature input[type=range] { width: 100%; }
        .type-toggle { display: flex; gap: 20px; padding: 10px 0; }
        .predict-btn { width: 100%; padding: 12px; font-size: 1.1em; font-weight: bold; color: white; background-color: #7b2940; border: none; border-radius: 8px; cursor: pointer; }
        .predict-btn:disabled { background-color: #aaa; cursor: wait; }
        .outcome { text-align: center; font-size: 1.4em; margin: 10px 0; min-height: 1.5em; }
        .outcome-succeeded { color: #28a745; }
        .outcome-failed { color: #dc3545; }
        .outcome-pending { color: #666; }
        @keyframes pulse { 0% { opacity: 1; } 50% { opacity: 0.5; } 100% { opacity: 1; } }
        .pulsing { animation: pulse 1.5s infinite; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>Wine Quality Dashboard</h1>
        </div>

        <div class="card">
            <h3>Chemistry</h3>
            {{range .Sliders}}
            <div class="feature">
                <div class="feature-row">
                    <span class="feature-label">{{.Label}}</span>
                    <span class="feature-value" id="value-{{.Name}}">{{.Value}}</span>
                </div>
                <input type="range" id="slider-{{.Name}}" data-name="{{.Name}}"
                       min="{{.Min}}" max="{{.Max}}" step="{{.Step}}" value="{{.Value}}">
            </div>
            {{end}}
            <div class="type-toggle">
                <label><input type="radio" name="wine-type" value="0" {{if eq .TypeWhite 0}}checked{{end}}> Red</label>
                <label><input type="radio" name="wine-type" value="1" {{if eq .TypeWhite 1}}checked{{end}}> White</label>
            </div>
        </div>

        <div class="card">
            <h3>Prediction</h3>
            <button class="predict-btn" id="predict">Predict quality</button>
            <div class="outcome" id="outcome"></div>
        </div>
    </div>

    <script>
        const ws = new WebSocket('ws://' + location.host + '/ws');

        ws.onmessage = function(event) {
            renderOutcome(JSON.parse(event.data));
        };

        document.querySelectorAll('input[type=range]').forEach(function(slider) {
            slider.addEventListener('input', function() {
                document.getElementById('value-' + slider.dataset.name).textContent = slider.value;
                fetch('/api/features', {
                    method: 'POST',
                    headers: {'Content-Type': 'application/json'},
                    body: JSON.stringify({name: slider.dataset.name, value: slider.value})
                });
            });
        });

        document.querySelectorAll('input[name=wine-type]').forEach(function(radio) {
            radio.addEventListener('change', function() {
                fetch('/api/type', {
                    method: 'POST',
                    headers: {'Content-Type': 'application/json'},
                    body: JSON.stringify({type_white: parseInt(radio.value, 10)})
                });
            });
        });

        document.getElementById('predict').addEventListener('click', function() {
            fetch('/api/predict', {method: 'POST'})
                .then(function(resp) { return resp.json(); })
                .then(renderOutcome)
                .catch(function() {
                    renderOutcome({phase: 'failed', message: 'dashboard unreachable'});
                });
        });

        function renderOutcome(outcome) {
            const el = document.getElementById('outcome');
            const btn = document.getElementById('predict');
            btn.disabled = outcome.phase === 'pending';
            switch (outcome.phase) {
            case 'pending':
                el.className = 'outcome outcome-pending pulsing';
                el.textContent = 'Predicting…';
                break;
            case 'succeeded':
                el.className = 'outcome outcome-succeeded';
                el.textContent = 'Predicted quality: ' + outcome.quality.toFixed(2);
                break;
            case 'failed':
                el.className = 'outcome outcome-failed';
                el.textContent = outcome.message;
                break;
            default:
                el.className = 'outcome';
                el.textContent = '';
            }
        }
    </script>
</body>
</html>
`
