/*
Package triproutes is the HTTP transport layer of the trip-routes service.

It exposes the zone and route catalog as thin CRUD endpoints, plus a
multipart upload endpoint that feeds NYC TLC trip files through the ranking
and reconciliation pipeline. Handlers translate store rejections to status
codes and add nothing else: business rules live in store and uploads.
*/
package triproutes
