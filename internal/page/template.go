package page

import "html/template"

type errorPageData struct {
	Nonce   string
	Message string
}

var errorPageTemplate = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Message}}</title>
<style nonce="{{.Nonce}}">
body { background: #0d253f; color: #fff; font-family: system-ui, sans-serif; display: flex; align-items: center; justify-content: center; min-height: 100vh; margin: 0; }
</style>
</head>
<body>
<h1 data-testid="error-message">{{.Message}}</h1>
</body>
</html>`))

var moviePageTemplate = template.Must(template.New("movie").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Movie.Title}} ({{.Movie.Year}})</title>
<style nonce="{{.Nonce}}">
body { background: #0d253f; color: #f5f5f5; font-family: system-ui, sans-serif; margin: 0; }
a { color: #01b4e4; }
.hero { display: flex; gap: 2rem; padding: 2rem; }
.hero img { width: 300px; border-radius: 8px; }
.chip { display: inline-block; padding: 0.2rem 0.6rem; margin-right: 0.4rem; border-radius: 999px; background: #1c3b5a; }
.score { display: inline-flex; width: 4rem; height: 4rem; border-radius: 50%; align-items: center; justify-content: center; background: #081c22; border: 3px solid #21d07a; font-weight: 700; }
.actions button { background: none; border: 1px solid #3b5878; color: inherit; padding: 0.4rem 0.8rem; border-radius: 6px; cursor: pointer; }
.actions button.active { color: #f5c518; border-color: #f5c518; }
.tabs a { margin-right: 1rem; text-decoration: none; }
.tabs a.active { border-bottom: 2px solid #01b4e4; }
section.tab { padding: 1rem 2rem; }
.filters a { margin-right: 0.5rem; }
.filters a.active { font-weight: 700; }
.star { color: #3b5878; }
.star.filled { color: #f5c518; }
.review { border-top: 1px solid #1c3b5a; padding: 1rem 0; }
.error { color: #ff6b6b; }
.play { display: inline-block; margin-top: 0.8rem; padding: 0.4rem 0.9rem; border-radius: 6px; background: #01b4e4; color: #0d253f; font-weight: 700; text-decoration: none; }
.player { padding: 1rem 2rem; background: #081c22; }
.player iframe { width: 100%; max-width: 960px; aspect-ratio: 16 / 9; border: 0; }
.animate-pulse { animation: pulse 0.6s ease-in-out; }
.animate-bounce { animation: bounce 0.6s ease-in-out; }
.animate-spin { animation: spin 0.6s linear; }
@keyframes pulse { 50% { opacity: 0.5; } }
@keyframes bounce { 50% { transform: translateY(-25%); } }
@keyframes spin { to { transform: rotate(360deg); } }
</style>
</head>
<body data-pulse-ms="{{.PulseMillis}}">
<main data-movie-id="{{.Movie.ID}}">
<section class="hero" data-testid="hero">
  {{if .Movie.PosterURL}}<img src="{{.Movie.PosterURL}}" alt="{{.Movie.Title}} poster" data-testid="movie-poster">{{end}}
  <div>
    <h1 data-testid="movie-title">{{.Movie.Title}} <span>({{.Movie.Year}})</span></h1>
    <p data-testid="movie-meta">{{.Movie.Rated}} · {{.Movie.Released}} · {{.Movie.Runtime}}</p>
    <p>{{range .Movie.GenreList}}<span class="chip" data-testid="genre-chip">{{.}}</span>{{end}}</p>
    <p><span class="score" data-testid="user-score">{{.Movie.UserScore}}%</span> User Score</p>
    <div class="actions">
      {{range .Actions}}
      <button type="button" class="{{if .Active}}active{{end}}{{with .PulseClass}} {{.}}{{end}}" data-action="{{.Kind}}" data-idle-label="{{.IdleLabel}}" data-active-label="{{.ActiveLabel}}" data-testid="button-{{.Kind}}" aria-pressed="{{if .Active}}true{{else}}false{{end}}">
        <span class="icon-{{.Icon}}"></span> <span class="label">{{.Label}}</span>
      </button>
      {{end}}
    </div>
    {{with .TrailerHref}}<a class="play" href="{{.}}" data-testid="button-play-trailer">&#9654; Play Trailer</a>{{end}}
    <div class="rating">
      <label for="user-rating">Your rating</label>
      <input id="user-rating" type="range" min="{{.Score.Min}}" max="{{.Score.Max}}" step="{{.Score.Step}}" value="{{.Score.Value}}" data-testid="input-user-rating">
      <output for="user-rating" data-testid="user-rating-value">{{.Score.Display}}</output>/10
    </div>
    {{with .Movie.Tagline}}<p data-testid="movie-tagline"><em>{{.}}</em></p>{{end}}
  </div>
</section>

{{with .Player}}
<section class="player" data-testid="trailer-player" data-video-id="{{.VideoID}}">
  <h2 data-testid="trailer-title">{{.Title}}</h2>
  <iframe src="{{.EmbedURL}}" title="{{.Title}}" allow="autoplay; encrypted-media; picture-in-picture" allowfullscreen data-testid="trailer-frame"></iframe>
  <p><a href="{{.CloseHref}}" data-testid="button-close-player">Close</a></p>
</section>
{{end}}

<nav class="tabs" data-testid="tab-navigation">
  {{range .Tabs}}<a href="?tab={{.ID}}" class="{{if .Active}}active{{end}}" data-testid="tab-{{.ID}}">{{.Label}}</a>{{end}}
</nav>

<section class="tab" id="overview" data-testid="section-overview"{{if ne .ActiveTab "overview"}} hidden{{end}}>
  <h2>Overview</h2>
  <p data-testid="movie-plot">{{.Movie.Plot}}</p>
  <dl>
    <dt>Director</dt><dd data-testid="movie-director">{{.Movie.Director}}</dd>
    <dt>Writer</dt><dd>{{.Movie.Writer}}</dd>
    <dt>Starring</dt><dd>{{.Movie.Actors}}</dd>
    <dt>IMDb</dt><dd>{{.Movie.IMDbRating}} ({{.Movie.IMDbVotes}} votes)</dd>
  </dl>
</section>

<section class="tab" id="cast" data-testid="section-cast"{{if ne .ActiveTab "cast"}} hidden{{end}}>
  <h2>Cast</h2>
  <ul>
    {{range .Cast}}<li data-testid="cast-member">{{if .Photo}}<img src="{{.Photo}}" alt="{{.Name}}" width="80">{{end}} <strong>{{.Name}}</strong> as {{.Character}}</li>{{end}}
  </ul>
</section>

<section class="tab" id="videos" data-testid="section-videos"{{if ne .ActiveTab "videos"}} hidden{{end}}>
  <h2>Videos</h2>
  <div class="filters">
    {{range .Videos.Buttons}}<a href="{{.Href}}" class="{{if .Active}}active{{end}}" data-testid="video-filter-{{.Value}}">{{.Label}} <span class="count">({{.Count}})</span></a>{{end}}
  </div>
  {{if .Videos.NoResults}}
  <p data-testid="videos-empty">{{.Videos.EmptyMessage}}</p>
  {{else}}
  <ul>
    {{range .Videos.Items}}<li data-testid="video-item" data-video-type="{{.Type}}">{{if .Thumbnail}}<img src="{{.Thumbnail}}" alt="{{.Title}}" width="200">{{end}} <strong>{{.Title}}</strong> <span>{{.Duration}}</span>{{with .PlayHref}} <a href="{{.}}" data-testid="video-play">Play</a>{{end}}</li>{{end}}
  </ul>
  {{end}}
</section>

<section class="tab" id="reviews" data-testid="section-reviews"{{if ne .ActiveTab "reviews"}} hidden{{end}}>
  <h2 data-testid="reviews-heading">User Reviews ({{.Reviews.Total}})</h2>
  <label for="review-filter">Show</label>
  <select id="review-filter" data-testid="review-filter">
    {{range .Reviews.Options}}<option value="{{.Value}}"{{if .Active}} selected{{end}}>{{.Label}}</option>{{end}}
  </select>

  {{with .Reviews.Draft}}
  <form id="review-form" data-testid="review-form" data-rating="{{.Rating}}">
    <div class="stars" data-testid="review-stars">
      {{$current := .Rating}}{{range $.Reviews.Stars}}<button type="button" class="star{{if le . $current}} filled{{end}}" data-star="{{.}}" aria-label="{{.}} stars">★</button>{{end}}
    </div>
    <textarea name="content" rows="4" maxlength="{{.MaxLength}}" placeholder="{{.Placeholder}}" data-testid="review-content">{{.Content}}</textarea>
    <p><span data-testid="review-counter">{{.Length}}/{{.MaxLength}} characters</span></p>
    <p class="error" data-testid="review-error" hidden></p>
    <button type="submit" data-testid="button-submit-review"{{if not .CanSubmit}} disabled{{end}}>Submit Review</button>
  </form>
  {{end}}

  {{if .Reviews.NoResults}}
  <p data-testid="reviews-empty">No reviews match the selected rating.</p>
  {{end}}
  {{range .Reviews.Items}}
  {{$rating := .Rating}}
  <article class="review" data-testid="review-item" data-review-id="{{.ID}}" data-rating="{{.Rating}}">
    <header>
      {{if .Avatar}}<img src="{{.Avatar}}" alt="{{.Author}}" width="40">{{else}}<span class="chip">{{.Initial}}</span>{{end}}
      <strong data-testid="review-author">{{.Author}}</strong>{{if .Own}} <span class="chip" data-testid="review-own">Your review</span>{{end}}
      <time datetime="{{.Date.Format "2006-01-02"}}">{{.DateLabel}}</time>
      <span>{{range $.Reviews.Stars}}<span class="star{{if le . $rating}} filled{{end}}">★</span>{{end}} {{.Rating}}/10</span>
    </header>
    <p data-testid="review-content-text">{{.Content}}</p>
    <footer>Helpful ({{.Helpful}}) · Not helpful ({{.Unhelpful}})</footer>
  </article>
  {{end}}
</section>

<section class="tab" id="recommendations" data-testid="section-recommendations"{{if ne .ActiveTab "recommendations"}} hidden{{end}}>
  <h2>More Like This</h2>
  <ul>
    {{range .Recommendations}}<li data-testid="recommendation">{{if .Poster}}<img src="{{.Poster}}" alt="{{.Title}}" width="120">{{end}} <strong>{{.Title}}</strong> ({{.Year}}) · {{.Rating}} · {{.Genre}} · {{.Duration}}</li>{{end}}
  </ul>
</section>
</main>

<script nonce="{{.Nonce}}">
(function () {
  var root = document.querySelector('[data-movie-id]');
  var base = '/movies/' + encodeURIComponent(root.getAttribute('data-movie-id'));
  var pulseMs = parseInt(document.body.getAttribute('data-pulse-ms'), 10) || 600;
  var pulseClasses = { favorite: 'animate-pulse', bookmark: 'animate-bounce', rated: 'animate-spin' };

  function send(method, url, body) {
    var opts = { method: method, credentials: 'same-origin', headers: {} };
    if (body !== undefined) {
      opts.headers['Content-Type'] = 'application/json';
      opts.body = JSON.stringify(body);
    }
    return fetch(url, opts).then(function (res) {
      return res.json().then(function (data) { return { status: res.status, data: data }; });
    });
  }

  document.querySelectorAll('[data-action]').forEach(function (btn) {
    btn.addEventListener('click', function () {
      var kind = btn.getAttribute('data-action');
      send('POST', base + '/actions/' + kind).then(function (res) {
        if (res.status !== 200) { return; }
        btn.classList.toggle('active', res.data.active);
        btn.setAttribute('aria-pressed', res.data.active ? 'true' : 'false');
        btn.querySelector('.label').textContent = btn.getAttribute(res.data.active ? 'data-active-label' : 'data-idle-label');
        if (res.data.pulsing) {
          btn.classList.add(pulseClasses[kind]);
          setTimeout(function () { btn.classList.remove(pulseClasses[kind]); }, pulseMs);
        }
      });
    });
  });

  var ratingInput = document.getElementById('user-rating');
  var ratingOutput = document.querySelector('[data-testid="user-rating-value"]');
  ratingInput.addEventListener('change', function () {
    send('POST', base + '/rating', { value: parseFloat(ratingInput.value) }).then(function (res) {
      if (res.status !== 200) { return; }
      ratingInput.value = res.data.rating;
      ratingOutput.textContent = res.data.rating.toFixed(1);
    });
  });

  document.getElementById('review-filter').addEventListener('change', function (e) {
    window.location.search = '?tab=reviews&minRating=' + encodeURIComponent(e.target.value);
  });

  var form = document.getElementById('review-form');
  var content = form.querySelector('textarea');
  var counter = form.querySelector('[data-testid="review-counter"]');
  var errorBox = form.querySelector('[data-testid="review-error"]');
  var submit = form.querySelector('[type="submit"]');

  function draft() {
    return { rating: parseInt(form.getAttribute('data-rating'), 10) || 0, content: content.value };
  }

  function stage() {
    send('PUT', base + '/review-draft', draft()).then(function (res) {
      if (res.status !== 200) { return; }
      counter.textContent = res.data.length + '/' + res.data.maxLength + ' characters';
      submit.disabled = !res.data.canSubmit;
    });
  }

  form.querySelectorAll('[data-star]').forEach(function (star) {
    star.addEventListener('click', function () {
      var value = parseInt(star.getAttribute('data-star'), 10);
      form.setAttribute('data-rating', value);
      form.querySelectorAll('[data-star]').forEach(function (s) {
        s.classList.toggle('filled', parseInt(s.getAttribute('data-star'), 10) <= value);
      });
      stage();
    });
  });
  content.addEventListener('input', stage);

  form.addEventListener('submit', function (e) {
    e.preventDefault();
    send('POST', base + '/reviews', draft()).then(function (res) {
      if (res.status === 201) {
        window.location.search = '?tab=reviews';
        return;
      }
      errorBox.textContent = res.data.error || 'Could not submit review';
      errorBox.hidden = false;
    });
  });
})();
</script>
</body>
</html>`))
