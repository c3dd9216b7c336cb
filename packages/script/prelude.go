package script

// prelude installs the sandbox bindings before the user script runs. The
// shape mirrors what editor HTTP clients expose: a read-only response, a
// client with test/assert/global, and console.log routed to the host.
const prelude = `
var client = {
	global: {
		set: function(key, value) { __globalSet(key, value); },
		get: function(key) { return __globalGet(key); }
	},
	test: function(name, fn) {
		try {
			fn();
			__recordTest(name, true, "");
		} catch (err) {
			__recordTest(name, false, err && err.message !== undefined ? err.message : String(err));
		}
	},
	assert: function(condition, message) {
		if (!condition) {
			throw new Error(message !== undefined ? message : "assertion failed");
		}
	}
};

var assert = client.assert;

var console = {
	log: function() {
		__consoleLog.apply(null, arguments);
	}
};

var response = {
	status: __responseStatus,
	headers: __responseHeaders,
	body: __responseBody,
	contentType: __responseContentType
};

Object.defineProperty(response, "json", {
	get: function() {
		if (this.__parsed === undefined) {
			this.__parsed = JSON.parse(this.body);
		}
		return this.__parsed;
	}
});
`
