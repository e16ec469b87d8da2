// Package services contains the application services of the fieldsync client.
//
// QueueService persists captures into the local queue and answers questions
// about it. SyncService drains the queue to the backend, one artifact at a
// time, and broadcasts progress after every artifact.
package services
