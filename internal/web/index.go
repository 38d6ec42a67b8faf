package web

// Single page: portfolio table, allocation form and a live feed of journaled reports.
const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Aporte</title>
  <link href="https://fonts.googleapis.com/css2?family=Space+Mono:wght@400;700&display=swap" rel="stylesheet">
  <style>
    :root { --bg:#ffffff; --ink:#111111; --ink-soft:#9c9c9c; --panel:#f6f6f6; }
    * { box-sizing:border-box; }
    body { margin:0; padding:2rem; background:var(--bg); color:var(--ink); font-family:'Space Mono',monospace; }
    h1 { font-size:1.4rem; letter-spacing:.1em; }
    section { background:var(--panel); padding:1rem 1.5rem; margin-bottom:1.5rem; }
    table { border-collapse:collapse; width:100%; }
    th, td { text-align:left; padding:.3rem .6rem; border-bottom:1px solid #ddd; }
    input { font-family:inherit; width:8rem; }
    button { font-family:inherit; padding:.4rem 1rem; cursor:pointer; }
    .muted { color:var(--ink-soft); }
    pre { white-space:pre-wrap; }
  </style>
</head>
<body>
  <h1>APORTE</h1>
  <section>
    <h2>Portfolio</h2>
    <form id="allocate">
      <table id="assets"><thead><tr><th>Asset</th><th>Target</th><th>Held</th></tr></thead><tbody></tbody></table>
      <p>Contribution <input id="contribution" value="1000" /> <button type="submit">Allocate</button></p>
    </form>
  </section>
  <section>
    <h2>Recommendation</h2>
    <pre id="result" class="muted">nothing yet</pre>
  </section>
  <section>
    <h2>Journal</h2>
    <table id="journal"><thead><tr><th>When</th><th>Outcome</th><th>Spent</th><th>Leftover</th></tr></thead><tbody></tbody></table>
  </section>
  <script>
    const assetsBody = document.querySelector('#assets tbody');
    fetch('/api/portfolio').then(r => r.json()).then(p => {
      for (const a of p.assets) {
        const tr = document.createElement('tr');
        tr.innerHTML = '<td>' + a.id + '<br><span class="muted">' + a.name + '</span></td>' +
          '<td>' + (Number(a.target_weight) * 100).toFixed(2) + '%</td>' +
          '<td><input data-id="' + a.id + '" value="0" /></td>';
        assetsBody.appendChild(tr);
      }
    });

    document.getElementById('allocate').addEventListener('submit', async (e) => {
      e.preventDefault();
      const holdings = {};
      document.querySelectorAll('input[data-id]').forEach(i => { holdings[i.dataset.id] = i.value; });
      const body = { holdings, contribution: document.getElementById('contribution').value };
      const res = await fetch('/api/allocate', { method: 'POST', headers: { 'Content-Type': 'application/json' }, body: JSON.stringify(body) });
      const data = await res.json();
      const out = document.getElementById('result');
      if (!res.ok) { out.textContent = 'error: ' + data.error; return; }
      const r = data.result;
      const lines = r.recommendations.map(x => x.asset_id + ': ' + x.quantity + ' @ ' + x.price + ' = ' + x.cost);
      if (r.message) lines.push(r.message);
      lines.push('spent ' + r.spent + ', leftover ' + r.leftover);
      out.textContent = lines.join('\n');
    });

    const journal = document.querySelector('#journal tbody');
    const es = new EventSource('/allocations/stream');
    es.addEventListener('allocation', (e) => {
      const rep = JSON.parse(e.data);
      const tr = document.createElement('tr');
      tr.innerHTML = '<td>' + new Date(rep.created_at).toLocaleString() + '</td><td>' + rep.result.reason +
        '</td><td>' + rep.result.spent + '</td><td>' + rep.result.leftover + '</td>';
      journal.prepend(tr);
    });
  </script>
</body>
</html>
`
