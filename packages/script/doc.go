// Package script bridges executed responses into an embedded JavaScript
// sandbox. Scripts see response, client.test / client.assert, client.global
// and console.log; test outcomes land in the run's session state. Each
// evaluation is synchronous, time-bounded and isolated from its neighbours.
package script
