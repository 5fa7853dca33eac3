package history

// ClientScript is the JavaScript injected into the app shell (raw, no
// script tag; shell.WithClientScript adds one). It keeps window.history
// synchronized with the bridge: user navigation (link clicks,
// back/forward) is reported up, and push/replace frames from the router
// move the browser.
const ClientScript = `
(function() {
    'use strict';

    var reconnectDelay = 1000;
    var maxReconnectDelay = 30000;
    var ws = null;

    function currentLocation() {
        return location.pathname + location.search;
    }

    function send(type) {
        if (ws && ws.readyState === WebSocket.OPEN) {
            ws.send(JSON.stringify({type: type, location: currentLocation()}));
        }
    }

    function connect() {
        var protocol = location.protocol === 'https:' ? 'wss:' : 'ws:';
        ws = new WebSocket(protocol + '//' + location.host + '/_wayfind/history');

        ws.onopen = function() {
            console.log('[Wayfind] History bridge connected');
            reconnectDelay = 1000;
            send('location');
        };

        ws.onmessage = function(e) {
            var msg;
            try {
                msg = JSON.parse(e.data);
            } catch (err) {
                return;
            }

            switch (msg.type) {
                case 'push':
                    history.pushState(null, '', msg.location);
                    break;

                case 'replace':
                    history.replaceState(null, '', msg.location);
                    break;
            }
        };

        ws.onclose = function() {
            console.log('[Wayfind] Connection lost, reconnecting in', reconnectDelay + 'ms');
            setTimeout(function() {
                reconnectDelay = Math.min(reconnectDelay * 2, maxReconnectDelay);
                connect();
            }, reconnectDelay);
        };

        ws.onerror = function() {
            ws.close();
        };
    }

    window.addEventListener('popstate', function() {
        send('navigate');
    });

    document.addEventListener('click', function(e) {
        var anchor = e.target.closest ? e.target.closest('a[href]') : null;
        if (!anchor) {
            return;
        }
        var url = new URL(anchor.href, location.href);
        if (url.origin !== location.origin || anchor.target === '_blank') {
            return;
        }
        e.preventDefault();
        history.pushState(null, '', url.pathname + url.search);
        send('navigate');
    });

    // Connect on load
    if (document.readyState === 'loading') {
        document.addEventListener('DOMContentLoaded', connect);
    } else {
        connect();
    }
})();
`
