// Package service contains the business logic sitting between the HTTP
// handlers and the stores: the deal negotiation engine and the admin
// operations, including their authorization rules.
package service
