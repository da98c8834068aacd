package reducer

import (
	"ashfall/internal/appliance"
	"ashfall/internal/catalog"
	"ashfall/internal/db"
	"ashfall/internal/events"
	"ashfall/internal/metrics"
	"ashfall/internal/model"
)

// LightCampfire implements spec.md §4.8's Lighting operation.
func LightCampfire(d *db.Database, cat *catalog.Catalog, ctx ReducerCtx, campfireID model.CampfireID) (lit bool, err error) {
	tx := appliance.Begin(d)
	defer tx.Done(&err)
	lit = appliance.Light(tx, d, cat, campfireID, ctx.Now)
	metrics.RecordReducerOp("light_campfire", nil)
	if lit {
		ctx.emit(events.TypeApplianceLit, events.AppliancePayload{CampfireID: campfireID})
	}
	return lit, nil
}

// ExtinguishCampfire implements spec.md §4.8's Extinguishing operation.
func ExtinguishCampfire(d *db.Database, ctx ReducerCtx, campfireID model.CampfireID) (err error) {
	tx := appliance.Begin(d)
	defer tx.Done(&err)
	appliance.Extinguish(tx, d, campfireID)
	metrics.RecordReducerOp("extinguish_campfire", nil)
	ctx.emit(events.TypeApplianceExtinguished, events.AppliancePayload{CampfireID: campfireID})
	return nil
}
