package web

// indexPage is the single-page frontend: a canvas for the field scene
// and slider controls mirroring the trace settings.
const indexPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Electric Field from Point Charges</title>
<style>
  body { font-family: sans-serif; display: flex; gap: 24px; margin: 24px; }
  canvas { border: 1px solid #ccc; }
  .controls { min-width: 320px; }
  .charge { margin-bottom: 8px; }
  label { display: inline-block; width: 160px; font-size: 13px; }
  input[type=range] { width: 120px; vertical-align: middle; }
  button { font-size: 12px; }
  h1 { font-size: 18px; }
</style>
</head>
<body>
<div>
  <h1>Electric Field from Point Charges</h1>
  <canvas id="plot" width="600" height="600"></canvas>
</div>
<div class="controls">
  <h1>Charges</h1>
  <div id="charges"></div>
  <button id="add_charge">Add charge</button>
  <h1>Settings</h1>
  <div>
    <label>Field lines per charge</label>
    <input type="range" id="lines_per_charge" min="6" max="40" step="2">
  </div>
  <div>
    <label>Field line length</label>
    <input type="range" id="length" min="10" max="100" step="10">
  </div>
  <div>
    <label>Resolution</label>
    <input type="range" id="resolution" min="1" max="10" step="1">
  </div>
  <div>
    <label>Approach tolerance (10^-n)</label>
    <input type="range" id="tol_exp" min="1" max="10" step="1">
  </div>
</div>
<script>
const EXTENT = 15;
const canvas = document.getElementById('plot');
const ctx = canvas.getContext('2d');
let scene = null;

function px(x) { return (x + EXTENT) / (2 * EXTENT) * canvas.width; }
function py(y) { return (EXTENT - y) / (2 * EXTENT) * canvas.height; }

function draw() {
  if (!scene) return;
  ctx.clearRect(0, 0, canvas.width, canvas.height);

  ctx.strokeStyle = '#000';
  ctx.lineWidth = 1;
  for (const line of scene.lines) {
    if (line.length < 2) continue;
    ctx.beginPath();
    ctx.moveTo(px(line[0][0]), py(line[0][1]));
    for (const p of line.slice(1)) ctx.lineTo(px(p[0]), py(p[1]));
    ctx.stroke();
  }

  for (const c of scene.charges) {
    ctx.beginPath();
    ctx.fillStyle = c.q > 0 ? '#d43b3b' : '#3b6fd4';
    ctx.arc(px(c.x), py(c.y), 8, 0, 2 * Math.PI);
    ctx.fill();
    ctx.fillStyle = '#000';
    ctx.fillText(c.q, px(c.x) + 10, py(c.y) - 4);
  }
}

function renderControls() {
  const box = document.getElementById('charges');
  box.innerHTML = '';
  scene.charges.forEach((c, i) => {
    const div = document.createElement('div');
    div.className = 'charge';
    div.innerHTML =
      'Q' + i + ' x <input type="range" min="-10" max="10" step="1" value="' + c.x + '" data-i="' + i + '" data-axis="x">' +
      ' y <input type="range" min="-10" max="10" step="1" value="' + c.y + '" data-i="' + i + '" data-axis="y">' +
      ' <button data-flip="' + i + '">' + (c.q > 0 ? '+' : '-') + '</button>' +
      ' <button data-rm="' + i + '">x</button>';
    box.appendChild(div);
  });
  box.querySelectorAll('input').forEach(el => el.oninput = onChargeInput);
  box.querySelectorAll('button[data-flip]').forEach(el => el.onclick = onPolarityClick);
  box.querySelectorAll('button[data-rm]').forEach(el => el.onclick = onRemoveClick);
  document.getElementById('add_charge').onclick = onAddClick;

  for (const id of ['lines_per_charge', 'length', 'resolution', 'tol_exp']) {
    document.getElementById(id).value = scene.settings[id];
    document.getElementById(id).oninput = onSettingsInput;
  }
}

function postCharge(i, c) {
  fetch('/api/charges/' + i, {method: 'POST', body: JSON.stringify(c)});
}

function onChargeInput(ev) {
  const i = +ev.target.dataset.i;
  const c = scene.charges[i];
  c[ev.target.dataset.axis] = +ev.target.value;
  postCharge(i, c);
}

function onPolarityClick(ev) {
  const i = +ev.target.dataset.flip;
  const c = scene.charges[i];
  c.q = -c.q;
  postCharge(i, c);
}

function onRemoveClick(ev) {
  fetch('/api/charges/' + ev.target.dataset.rm, {method: 'DELETE'});
}

function onAddClick() {
  const q = scene.charges.length % 2 === 0 ? -1 : 1;
  fetch('/api/charges', {method: 'POST', body: JSON.stringify({x: 0, y: 0, q: q})});
}

function onSettingsInput() {
  const s = scene.settings;
  for (const id of ['lines_per_charge', 'length', 'resolution', 'tol_exp']) {
    s[id] = +document.getElementById(id).value;
  }
  fetch('/api/settings', {method: 'POST', body: JSON.stringify(s)});
}

function connect() {
  const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
  ws.onmessage = ev => {
    const before = scene === null ? -1 : scene.charges.length;
    scene = JSON.parse(ev.data);
    draw();
    if (scene.charges.length !== before) renderControls();
  };
  ws.onclose = () => setTimeout(connect, 1000);
}

fetch('/api/scene').then(r => r.json()).then(s => {
  scene = s;
  draw();
  renderControls();
});
connect();
</script>
</body>
</html>
`
