package embed

import "text/template"

// The artifacts are rendered with text/template plus explicit escaping
// funcs (attr, js). html/template's contextual escaper would rewrite the
// script body, so escaping stays a visible, testable step instead.

type iframeData struct {
	Src          string
	Width        int
	Height       int
	Style        string
	Sandbox      bool
	SandboxValue string
	LazyLoad     bool
	Title        string
}

type reactData struct {
	Src          string
	Width        int
	Height       int
	StyleJSX     string
	Sandbox      bool
	SandboxValue string
	LazyLoad     bool
	Title        string
}

type scriptData struct {
	ContainerID     string
	WidgetURL       string
	WidgetOrigin    string
	Title           string
	Style           string
	Sandbox         bool
	SandboxValue    string
	LazyLoad        bool
	Height          int
	ReadyAttempts   int
	ReadyIntervalMS int
}

const iframeTemplateText = `<iframe src="{{attr .Src}}" width="{{.Width}}" height="{{.Height}}" style="{{.Style}}"{{if .Sandbox}} sandbox="{{.SandboxValue}}"{{end}}{{if .LazyLoad}} loading="lazy"{{end}} referrerpolicy="strict-origin-when-cross-origin" title="{{attr .Title}}"></iframe>`

// StyleJSX already carries its own double braces, so the bare action
// below renders a normal JSX style object.
const reactTemplateText = `<iframe
  src="{{attr .Src}}"
  width="{{.Width}}"
  height="{{.Height}}"
  style={{.StyleJSX}}{{if .Sandbox}}
  sandbox="{{.SandboxValue}}"{{end}}{{if .LazyLoad}}
  loading="lazy"{{end}}
  referrerPolicy="strict-origin-when-cross-origin"
  title="{{attr .Title}}"
/>`

const scriptTemplateText = `<div id="{{attr .ContainerID}}"></div>
<script>
(function () {
  var win = window, doc = document;
  var containerId = '{{js .ContainerID}}';
  var widgetBase = '{{js .WidgetURL}}';
  var widgetOrigin = '{{js .WidgetOrigin}}';
  var widgetTitle = '{{js .Title}}';
  var readyAttempts = {{.ReadyAttempts}};
  var readyIntervalMs = {{.ReadyIntervalMS}};

  function uid() {
    if (win.crypto && typeof win.crypto.randomUUID === 'function') {
      return win.crypto.randomUUID();
    }
    return Date.now().toString(36) + '-' + Math.random().toString(36).slice(2);
  }

  function mount() {
    var container = doc.getElementById(containerId);
    if (!container) { return; }
    if (container.getAttribute('data-tablo-mounted') === '1') { return; }

    var registry = win.__tabloWidgets;
    if (!registry) {
      registry = win.__tabloWidgets = {
        instances: {},
        unmount: function (id) {
          var entry = this.instances[id];
          if (!entry) { return; }
          win.removeEventListener('message', entry.handler);
          delete this.instances[id];
        }
      };
    }

    var widgetId = 'wgt-' + uid();
    var correlationId = 'cid-' + uid();
    if (registry.instances[widgetId]) { return; }

    var frame = doc.createElement('iframe');
    frame.title = widgetTitle;
    frame.style.cssText = '{{js .Style}}';
    frame.style.opacity = '0';
    frame.style.transition = 'opacity 0.3s ease';
{{- if .Sandbox}}
    frame.setAttribute('sandbox', '{{js .SandboxValue}}');
{{- end}}
{{- if .LazyLoad}}
    frame.setAttribute('loading', 'lazy');
{{- end}}
    frame.setAttribute('referrerpolicy', 'strict-origin-when-cross-origin');

    var state = { phase: 'created', height: {{.Height}}, correlationId: correlationId };

    function renderErrorPanel() {
      var panel = doc.createElement('div');
      panel.setAttribute('style', 'padding:16px;font-family:sans-serif;font-size:14px;color:#444;border:1px solid #ddd;border-radius:8px;');
      panel.textContent = 'This widget failed to load. Please try again later. (ref ' + correlationId + ')';
      container.innerHTML = '';
      container.appendChild(panel);
    }

    function onMessage(event) {
      if (event.origin !== widgetOrigin) { return; }
      var data = event.data || {};
      if (data.widgetId !== widgetId) { return; }
      if (state.phase === 'errored' || state.phase === 'closed') { return; }
      switch (data.type) {
        case 'widget_loaded':
          state.phase = 'interactive';
          frame.style.opacity = '1';
          container.setAttribute('data-tablo-loaded', '1');
          break;
        case 'widget_resize':
          if (state.phase !== 'interactive') { return; }
          if (typeof data.height !== 'number' || data.height <= 0) { return; }
          state.height = data.height;
          frame.style.height = data.height + 'px';
          container.style.height = data.height + 'px';
          break;
        case 'widget_conversion':
          if (state.phase !== 'interactive') { return; }
          if (typeof win.tabloOnConversion === 'function') {
            try { win.tabloOnConversion(data.value); } catch (err) {}
          }
          break;
        case 'widget_error':
          state.phase = 'errored';
          if (win.console && win.console.error) {
            win.console.error('[tablo-widget] ' + (data.error || 'widget error'),
              'requestId=' + (data.requestId || ''), 'cid=' + correlationId);
          }
          renderErrorPanel();
          registry.unmount(widgetId);
          break;
        case 'widget_close':
          state.phase = 'closed';
          container.style.display = 'none';
          break;
      }
    }

    registry.instances[widgetId] = { handler: onMessage, state: state };
    win.addEventListener('message', onMessage);
    container.setAttribute('data-tablo-mounted', '1');
    container.setAttribute('data-tablo-widget-id', widgetId);

    frame.src = widgetBase +
      '&parent_origin=' + encodeURIComponent(win.location.origin) +
      '&cid=' + encodeURIComponent(correlationId);
    container.appendChild(frame);
    state.phase = 'iframe_attached';

    var announced = 0;
    function announceReady() {
      if (state.phase !== 'iframe_attached' && state.phase !== 'parent_ready_sent') { return; }
      if (!frame.contentWindow) { return; }
      frame.contentWindow.postMessage(
        { type: 'parent_ready', widgetId: widgetId, correlationId: correlationId },
        widgetOrigin
      );
      state.phase = 'parent_ready_sent';
      announced += 1;
      if (announced < readyAttempts) { setTimeout(announceReady, readyIntervalMs); }
    }
    frame.addEventListener('load', announceReady);
    announceReady();
  }

  if (doc.readyState === 'loading') {
    doc.addEventListener('DOMContentLoaded', mount);
  } else {
    mount();
  }
})();
</script>`

func mustParseArtifacts() *template.Template {
	root := template.New("artifacts").Funcs(template.FuncMap{
		"attr": escapeAttrText.Replace,
		"js":   escapeJSString.Replace,
	})
	template.Must(root.New("iframe").Parse(iframeTemplateText))
	template.Must(root.New("react").Parse(reactTemplateText))
	template.Must(root.New("script").Parse(scriptTemplateText))
	return root
}

var artifactTemplates = mustParseArtifacts()
